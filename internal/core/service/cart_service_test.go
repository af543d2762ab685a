package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cakeorder/bakery-storefront/internal/core/domain"
)

func newCartSvc(store *stubStore) *CartService {
	return NewCartService(stubCartRepo{store}, stubItemRepo{store}, discardLogger)
}

func TestCartService_AddToCart_MergesLines(t *testing.T) {
	store := newStubStore()
	it := store.addItem("Cream cupcake", "21.00", true)
	svc := newCartSvc(store)

	if err := svc.AddToCart(context.Background(), 1, it.ID, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.AddToCart(context.Background(), 1, it.ID, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines, err := svc.ListCart(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 || lines[0].Quantity != 5 {
		t.Fatalf("expected one line with quantity 5, got %+v", lines)
	}
}

func TestCartService_AddToCart_Rejections(t *testing.T) {
	store := newStubStore()
	soldOut := store.addItem("Unicorn Cake", "40.00", false)
	svc := newCartSvc(store)

	if err := svc.AddToCart(context.Background(), 1, soldOut.ID, 0); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if err := svc.AddToCart(context.Background(), 1, 404, 1); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
	if err := svc.AddToCart(context.Background(), 1, soldOut.ID, 1); !errors.Is(err, domain.ErrItemUnavailable) {
		t.Fatalf("expected ErrItemUnavailable, got %v", err)
	}
	if len(store.carts[1]) != 0 {
		t.Error("rejected additions must not reach the cart")
	}
}

func TestCartService_SetQuantityAndRemove(t *testing.T) {
	store := newStubStore()
	it := store.addItem("Cream cupcake", "21.00", true)
	store.putCart(1, it.ID, 1)
	svc := newCartSvc(store)

	if err := svc.SetQuantity(context.Background(), 1, it.ID, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.carts[1][it.ID] != 4 {
		t.Errorf("expected quantity 4, got %d", store.carts[1][it.ID])
	}
	if err := svc.SetQuantity(context.Background(), 1, it.ID, -1); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if err := svc.SetQuantity(context.Background(), 1, 77, 1); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound for missing line, got %v", err)
	}

	if err := svc.RemoveFromCart(context.Background(), 1, it.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.carts[1]) != 0 {
		t.Error("line not removed")
	}
}

func TestCartService_Summary(t *testing.T) {
	store := newStubStore()
	a := store.addItem("Cream cupcake", "21.00", true)
	b := store.addItem("Fall Leaves Sugar Biscuits", "15.50", true)
	store.putCart(1, a.ID, 2)
	store.putCart(1, b.ID, 3)
	svc := newCartSvc(store)

	sum, err := svc.Summary(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.LineCount != 2 {
		t.Errorf("expected 2 lines, got %d", sum.LineCount)
	}
	if sum.Total.StringFixed(2) != "88.50" {
		t.Errorf("expected total 88.50, got %s", sum.Total.StringFixed(2))
	}

	empty, _ := svc.Summary(context.Background(), 2)
	if empty.LineCount != 0 || !empty.Total.IsZero() {
		t.Errorf("expected empty summary, got %+v", empty)
	}
}
