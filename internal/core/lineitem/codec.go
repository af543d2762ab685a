// Package lineitem encodes an order's line items into the single text field
// stored on the order, and decodes that field back.
//
// The wire format is a comma-joined sequence of brace-delimited triples
//
//	{itemId,unitPrice,quantity},{itemId,unitPrice,quantity}
//
// with unitPrice rendered with exactly two decimals. Fields are split
// positionally, so a price may never contain a comma.
package lineitem

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cakeorder/bakery-storefront/internal/core/domain"
)

const (
	openBrace  = "{"
	closeBrace = "}"
	separator  = "},{"
	fieldSep   = ","
)

// Line is one priced entry of an order snapshot.
type Line struct {
	ItemID    int64
	UnitPrice decimal.Decimal
	Quantity  int
}

// Extension returns UnitPrice * Quantity.
func (l Line) Extension() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// FromCart converts cart lines into codec lines, taking the item's current price.
func FromCart(cart []domain.CartLine) []Line {
	lines := make([]Line, 0, len(cart))
	for _, c := range cart {
		lines = append(lines, Line{ItemID: c.Item.ID, UnitPrice: c.Item.Price, Quantity: c.Quantity})
	}
	return lines
}

// Encode renders lines into the stored field. An empty slice is rejected with
// ErrEmptyCart since an order cannot be built from zero lines.
func Encode(lines []Line) (string, error) {
	if len(lines) == 0 {
		return "", domain.ErrEmptyCart
	}

	var b strings.Builder
	for i, l := range lines {
		if l.Quantity < 1 {
			return "", domain.MalformedLineItems("line %d: quantity %d", i, l.Quantity)
		}
		if l.UnitPrice.IsNegative() {
			return "", domain.MalformedLineItems("line %d: negative price %s", i, l.UnitPrice.StringFixed(2))
		}
		if i > 0 {
			b.WriteString(fieldSep)
		}
		b.WriteString(openBrace)
		b.WriteString(strconv.FormatInt(l.ItemID, 10))
		b.WriteString(fieldSep)
		b.WriteString(l.UnitPrice.StringFixed(2))
		b.WriteString(fieldSep)
		b.WriteString(strconv.Itoa(l.Quantity))
		b.WriteString(closeBrace)
	}
	return b.String(), nil
}

// Decode parses a stored field. Any structural or numeric problem is reported
// as ErrMalformedLineItemField; nothing is defaulted or skipped.
func Decode(field string) ([]Line, error) {
	if len(field) < len(openBrace)+len(closeBrace) || !strings.HasPrefix(field, openBrace) || !strings.HasSuffix(field, closeBrace) {
		return nil, domain.MalformedLineItems("missing enclosing braces")
	}

	inner := field[len(openBrace) : len(field)-len(closeBrace)]
	triples := strings.Split(inner, separator)

	lines := make([]Line, 0, len(triples))
	for i, triple := range triples {
		parts := strings.Split(triple, fieldSep)
		if len(parts) != 3 {
			return nil, domain.MalformedLineItems("entry %d: expected 3 fields, got %d", i, len(parts))
		}

		id, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return nil, domain.MalformedLineItems("entry %d: item id %q", i, parts[0])
		}
		price, err := decimal.NewFromString(parts[1])
		if err != nil || price.IsNegative() {
			return nil, domain.MalformedLineItems("entry %d: price %q", i, parts[1])
		}
		qty, err := strconv.Atoi(parts[2])
		if err != nil || qty < 1 {
			return nil, domain.MalformedLineItems("entry %d: quantity %q", i, parts[2])
		}

		lines = append(lines, Line{ItemID: id, UnitPrice: price, Quantity: qty})
	}
	return lines, nil
}

// Total sums the extensions of lines.
func Total(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Extension())
	}
	return total
}

// TotalQuantity sums the quantities of lines.
func TotalQuantity(lines []Line) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
