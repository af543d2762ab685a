package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// OrderState represents the confirmation state of an order.
type OrderState string

const (
	OrderUnconfirmed OrderState = "UNCONFIRMED"
	OrderConfirmed   OrderState = "CONFIRMED"
)

// validTransitions defines the allowed state machine transitions. Confirmed
// orders can be sent back to unconfirmed, so the machine is bidirectional.
var validTransitions = map[OrderState][]OrderState{
	OrderUnconfirmed: {OrderConfirmed},
	OrderConfirmed:   {OrderUnconfirmed},
}

var ErrInvalidTransition = errors.New("invalid order state transition")

// CanTransitionTo reports whether a transition from current state to next is valid.
func (s OrderState) CanTransitionTo(next OrderState) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Opposite returns the state a flip away from s would land on.
func (s OrderState) Opposite() OrderState {
	if s == OrderConfirmed {
		return OrderUnconfirmed
	}
	return OrderConfirmed
}

// Order is a priced, point-in-time snapshot of a cart. Items holds the encoded
// line-item field and, together with TotalPrice, is never recomputed from live
// catalog data after creation.
type Order struct {
	ID         int64           `json:"id"`
	AccountID  int64           `json:"account_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Items      string          `json:"items"`
	State      OrderState      `json:"state"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Confirmed reports whether the order is in the confirmed state.
func (o *Order) Confirmed() bool {
	return o.State == OrderConfirmed
}

// OrderEventType labels what happened to an order.
type OrderEventType string

const (
	OrderPlaced      OrderEventType = "order_placed"
	OrderStateChange OrderEventType = "order_state_changed"
)

// OrderEvent is emitted after an order is created or changes state.
type OrderEvent struct {
	Type       OrderEventType
	OrderID    int64
	AccountID  int64
	State      OrderState
	TotalPrice decimal.Decimal
	OccurredAt time.Time
}
