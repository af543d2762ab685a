package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/cakeorder/bakery-storefront/internal/core/domain"
	"github.com/cakeorder/bakery-storefront/internal/core/ports"
)

func cartWith(lines ...domain.CartLine) func(ctx context.Context, accountID int64) ([]domain.CartLine, error) {
	return func(ctx context.Context, accountID int64) ([]domain.CartLine, error) {
		return lines, nil
	}
}

func TestCartHandler_List(t *testing.T) {
	carts := &stubCartService{
		listFn: cartWith(
			domain.CartLine{AccountID: 5, Item: domain.Item{ID: 1, Name: "Croissant", Price: dec("10.00"), Available: true}, Quantity: 2},
			domain.CartLine{AccountID: 5, Item: domain.Item{ID: 2, Name: "Eclair", Price: dec("20.50"), Available: true}, Quantity: 3},
		),
	}
	h := NewCartHandler(carts)

	c, rec := newTestContext(http.MethodGet, "/v1/cart", nil)
	asUser(c, 5, domain.RoleUser)
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp cartResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.LineCount != 2 || resp.Total != "81.50" {
		t.Fatalf("unexpected cart: %+v", resp)
	}
	if resp.Lines[1].Extension != "61.50" {
		t.Fatalf("unexpected extension: %s", resp.Lines[1].Extension)
	}
}

func TestCartHandler_List_Unauthenticated(t *testing.T) {
	h := NewCartHandler(&stubCartService{})

	c, _ := newTestContext(http.MethodGet, "/v1/cart", nil)
	mustStatus(t, h.List(c), http.StatusUnauthorized)
}

func TestCartHandler_Add_DefaultsQuantityToOne(t *testing.T) {
	var gotQty int
	carts := &stubCartService{
		addFn: func(ctx context.Context, accountID, itemID int64, qty int) error {
			if accountID != 5 || itemID != 7 {
				t.Fatalf("unexpected args: %d %d", accountID, itemID)
			}
			gotQty = qty
			return nil
		},
		listFn: cartWith(),
	}
	h := NewCartHandler(carts)

	c, rec := newTestContext(http.MethodPost, "/v1/cart", strings.NewReader(`{"item_id":7}`))
	asUser(c, 5, domain.RoleUser)
	if err := h.Add(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotQty != 1 {
		t.Fatalf("expected quantity 1, got %d", gotQty)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCartHandler_Add_ZeroQuantityReachesService(t *testing.T) {
	carts := &stubCartService{
		addFn: func(ctx context.Context, accountID, itemID int64, qty int) error {
			if qty != 0 {
				t.Fatalf("expected explicit 0, got %d", qty)
			}
			return domain.ErrInvalidQuantity
		},
	}
	h := NewCartHandler(carts)

	c, _ := newTestContext(http.MethodPost, "/v1/cart", strings.NewReader(`{"item_id":7,"quantity":0}`))
	asUser(c, 5, domain.RoleUser)
	if err := h.Add(c); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestCartHandler_Add_MissingItem(t *testing.T) {
	h := NewCartHandler(&stubCartService{})

	c, _ := newTestContext(http.MethodPost, "/v1/cart", strings.NewReader(`{"quantity":2}`))
	asUser(c, 5, domain.RoleUser)
	mustStatus(t, h.Add(c), http.StatusBadRequest)
}

func TestCartHandler_SetQuantity(t *testing.T) {
	carts := &stubCartService{
		setFn: func(ctx context.Context, accountID, itemID int64, qty int) error {
			if itemID != 4 || qty != 6 {
				t.Fatalf("unexpected args: %d %d", itemID, qty)
			}
			return nil
		},
		listFn: cartWith(),
	}
	h := NewCartHandler(carts)

	c, _ := newTestContext(http.MethodPut, "/v1/cart/4", strings.NewReader(`{"quantity":6}`))
	c.SetParamNames("item_id")
	c.SetParamValues("4")
	asUser(c, 5, domain.RoleUser)
	if err := h.SetQuantity(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestCartHandler_Remove(t *testing.T) {
	removed := false
	carts := &stubCartService{
		removeFn: func(ctx context.Context, accountID, itemID int64) error {
			removed = accountID == 5 && itemID == 4
			return nil
		},
	}
	h := NewCartHandler(carts)

	c, rec := newTestContext(http.MethodDelete, "/v1/cart/4", nil)
	c.SetParamNames("item_id")
	c.SetParamValues("4")
	asUser(c, 5, domain.RoleUser)
	if err := h.Remove(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !removed || rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 after removal, got %d (removed=%v)", rec.Code, removed)
	}
}

func TestCartHandler_Summary(t *testing.T) {
	carts := &stubCartService{
		summaryFn: func(ctx context.Context, accountID int64) (*ports.CartSummary, error) {
			return &ports.CartSummary{LineCount: 2, Total: dec("82")}, nil
		},
	}
	h := NewCartHandler(carts)

	c, rec := newTestContext(http.MethodGet, "/v1/cart/summary", nil)
	asUser(c, 5, domain.RoleUser)
	if err := h.Summary(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp cartSummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.LineCount != 2 || resp.Total != "82.00" {
		t.Fatalf("unexpected summary: %+v", resp)
	}
}
