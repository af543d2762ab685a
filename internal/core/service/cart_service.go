package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cakeorder/bakery-storefront/internal/core/domain"
	"github.com/cakeorder/bakery-storefront/internal/core/ports"
)

// CartService manages the active cart of an account.
type CartService struct {
	carts ports.CartRepository
	items ports.ItemRepository
	log   zerolog.Logger
}

var _ ports.CartService = (*CartService)(nil)

func NewCartService(carts ports.CartRepository, items ports.ItemRepository, log zerolog.Logger) *CartService {
	return &CartService{carts: carts, items: items, log: log}
}

// AddToCart adds qty of the item, merging with an existing line.
func (s *CartService) AddToCart(ctx context.Context, accountID, itemID int64, qty int) error {
	if qty < 1 {
		return domain.ErrInvalidQuantity
	}

	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	if !item.Available {
		return fmt.Errorf("add to cart: %w", &domain.StateError{Reason: domain.ReasonItemUnavailable, Detail: item.Name})
	}

	if err := s.carts.AddQuantity(ctx, accountID, itemID, qty); err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	s.log.Debug().Int64("account_id", accountID).Int64("item_id", itemID).Int("qty", qty).Msg("cart line added")
	return nil
}

// SetQuantity overwrites the quantity of an existing line.
func (s *CartService) SetQuantity(ctx context.Context, accountID, itemID int64, qty int) error {
	if qty < 1 {
		return domain.ErrInvalidQuantity
	}
	if err := s.carts.SetQuantity(ctx, accountID, itemID, qty); err != nil {
		return fmt.Errorf("set quantity: %w", err)
	}
	return nil
}

func (s *CartService) RemoveFromCart(ctx context.Context, accountID, itemID int64) error {
	if err := s.carts.Remove(ctx, accountID, itemID); err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}
	return nil
}

func (s *CartService) ListCart(ctx context.Context, accountID int64) ([]domain.CartLine, error) {
	lines, err := s.carts.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	return lines, nil
}

// Summary returns the line count and the summed extensions at current prices.
func (s *CartService) Summary(ctx context.Context, accountID int64) (*ports.CartSummary, error) {
	lines, err := s.ListCart(ctx, accountID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Extension())
	}
	return &ports.CartSummary{LineCount: len(lines), Total: total}, nil
}
