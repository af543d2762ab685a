package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a catalog entry. Price is a non-negative fixed-point amount.
type Item struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Available   bool            `json:"available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ItemImage belongs to exactly one item and is removed together with it.
type ItemImage struct {
	ID          string    `json:"id"`
	ItemID      int64     `json:"item_id"`
	ContentType string    `json:"content_type"`
	Data        []byte    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// CartLine is one item in an account's active cart.
type CartLine struct {
	AccountID int64 `json:"account_id"`
	Item      Item  `json:"item"`
	Quantity  int   `json:"quantity"`
}

// Extension is the line total: quantity times the current item price.
func (l CartLine) Extension() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
