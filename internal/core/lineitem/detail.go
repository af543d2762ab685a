package lineitem

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentLookups bounds the item lookups issued while resolving names.
const maxConcurrentLookups = 8

// NameResolver maps an item id to its current display name.
type NameResolver interface {
	ItemName(ctx context.Context, itemID int64) (string, error)
}

// DetailLine is a decoded line with its item name resolved for display.
type DetailLine struct {
	ItemID    int64           `json:"item_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Extension decimal.Decimal `json:"extension"`
}

// Detail is the display form of an order's line-item field.
type Detail struct {
	Lines         []DetailLine `json:"lines"`
	TotalQuantity int          `json:"total_quantity"`
}

// DecodeDetail decodes field and resolves every item name. Lines keep their
// stored order. A decode failure or a failed lookup aborts the whole call.
func DecodeDetail(ctx context.Context, field string, names NameResolver) (Detail, error) {
	lines, err := Decode(field)
	if err != nil {
		return Detail{}, err
	}

	out := make([]DetailLine, len(lines))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)

	for idx := range lines {
		g.Go(func() error {
			l := lines[idx]
			name, err := names.ItemName(ctx, l.ItemID)
			if err != nil {
				return fmt.Errorf("resolve item %d: %w", l.ItemID, err)
			}
			out[idx] = DetailLine{
				ItemID:    l.ItemID,
				Name:      name,
				UnitPrice: l.UnitPrice,
				Quantity:  l.Quantity,
				Extension: l.Extension(),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Detail{}, err
	}

	return Detail{Lines: out, TotalQuantity: TotalQuantity(lines)}, nil
}
