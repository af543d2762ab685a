package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cakeorder/bakery-storefront/internal/core/domain"
	"github.com/cakeorder/bakery-storefront/internal/core/lineitem"
	"github.com/cakeorder/bakery-storefront/internal/core/ports"
)

const defaultCheckoutLockTTL = 10 * time.Second

// OrderService turns carts into orders and drives the confirmation state machine.
type OrderService struct {
	tx      ports.TransactionManager
	orders  ports.OrderRepository
	items   ports.ItemRepository
	locker  ports.CheckoutLocker
	events  ports.OrderEventPublisher
	lockTTL time.Duration
	log     zerolog.Logger
}

var _ ports.OrderService = (*OrderService)(nil)

// NewOrderService wires the order lifecycle. locker and events are optional.
func NewOrderService(
	tx ports.TransactionManager,
	orders ports.OrderRepository,
	items ports.ItemRepository,
	locker ports.CheckoutLocker,
	events ports.OrderEventPublisher,
	lockTTL time.Duration,
	log zerolog.Logger,
) *OrderService {
	if lockTTL <= 0 {
		lockTTL = defaultCheckoutLockTTL
	}
	return &OrderService{
		tx:      tx,
		orders:  orders,
		items:   items,
		locker:  locker,
		events:  events,
		lockTTL: lockTTL,
		log:     log,
	}
}

// PlaceOrder snapshots the account's cart into a new unconfirmed order and
// clears the cart. Snapshot, insert and clear share one transaction.
func (s *OrderService) PlaceOrder(ctx context.Context, accountID int64) (*domain.Order, decimal.Decimal, error) {
	release, err := s.acquireCheckout(ctx, accountID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	defer release()

	var order *domain.Order
	err = s.tx.WithinTx(ctx, func(ctx context.Context, r ports.TxRepos) error {
		cart, err := r.Carts().ListByAccount(ctx, accountID)
		if err != nil {
			return fmt.Errorf("list cart: %w", err)
		}
		if len(cart) == 0 {
			return domain.ErrEmptyCart
		}
		for _, line := range cart {
			if !line.Item.Available {
				return &domain.StateError{Reason: domain.ReasonItemUnavailable, Detail: line.Item.Name}
			}
		}

		lines := lineitem.FromCart(cart)
		field, err := lineitem.Encode(lines)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		order = &domain.Order{
			AccountID:  accountID,
			TotalPrice: lineitem.Total(lines),
			Items:      field,
			State:      domain.OrderUnconfirmed,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := r.Orders().Save(ctx, order); err != nil {
			return fmt.Errorf("save order: %w", err)
		}
		if err := r.Carts().ClearAccount(ctx, accountID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrEmptyCart) && !errors.Is(err, domain.ErrItemUnavailable) {
			s.log.Error().Err(err).Int64("account_id", accountID).Msg("place order failed")
		}
		return nil, decimal.Zero, fmt.Errorf("place order: %w", err)
	}

	s.log.Info().
		Int64("order_id", order.ID).
		Int64("account_id", accountID).
		Str("total", order.TotalPrice.StringFixed(2)).
		Msg("order placed")
	s.publish(domain.OrderPlaced, order)

	return order, order.TotalPrice, nil
}

// acquireCheckout takes the per-account checkout lock. A lock backend failure
// is logged and checkout continues unlocked.
func (s *OrderService) acquireCheckout(ctx context.Context, accountID int64) (func(), error) {
	noop := func() {}
	if s.locker == nil {
		return noop, nil
	}
	release, ok, err := s.locker.Acquire(ctx, accountID, s.lockTTL)
	if err != nil {
		s.log.Warn().Err(err).Int64("account_id", accountID).Msg("checkout lock unavailable, proceeding without it")
		return noop, nil
	}
	if !ok {
		return nil, domain.ErrCheckoutInProgress
	}
	if release == nil {
		release = noop
	}
	return release, nil
}

// ConfirmOrder confirms the account's most recent unconfirmed order.
func (s *OrderService) ConfirmOrder(ctx context.Context, accountID int64) (*domain.Order, error) {
	order, err := s.flipLatest(ctx, accountID, domain.OrderUnconfirmed)
	if err != nil {
		return nil, fmt.Errorf("confirm order: %w", err)
	}
	return order, nil
}

// UnconfirmOrder returns the account's most recent confirmed order to unconfirmed.
func (s *OrderService) UnconfirmOrder(ctx context.Context, accountID int64) (*domain.Order, error) {
	order, err := s.flipLatest(ctx, accountID, domain.OrderConfirmed)
	if err != nil {
		return nil, fmt.Errorf("unconfirm order: %w", err)
	}
	return order, nil
}

// flipLatest picks the newest order in state from and moves it to the opposite
// state. When no order is in that state the newest order of any state is
// returned unchanged; an account without orders is NotFound.
func (s *OrderService) flipLatest(ctx context.Context, accountID int64, from domain.OrderState) (*domain.Order, error) {
	order, err := s.orders.FindLatestByAccount(ctx, accountID, from)
	if errors.Is(err, domain.ErrOrderNotFound) {
		return s.orders.FindLatestByAccount(ctx, accountID, "")
	}
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, order, from.Opposite())
}

func (s *OrderService) ConfirmOrderByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("confirm order: %w", err)
	}
	return s.transition(ctx, order, domain.OrderConfirmed)
}

func (s *OrderService) UnconfirmOrderByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("unconfirm order: %w", err)
	}
	return s.transition(ctx, order, domain.OrderUnconfirmed)
}

// transition moves order to next. Setting the state it already has is a no-op.
func (s *OrderService) transition(ctx context.Context, order *domain.Order, next domain.OrderState) (*domain.Order, error) {
	if order.State == next {
		return order, nil
	}
	if !order.State.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, order.State, next)
	}
	if err := s.orders.UpdateState(ctx, order.ID, next); err != nil {
		return nil, fmt.Errorf("update order state: %w", err)
	}

	prev := order.State
	order.State = next
	order.UpdatedAt = time.Now().UTC()

	s.log.Info().
		Int64("order_id", order.ID).
		Str("from", string(prev)).
		Str("to", string(next)).
		Msg("order state changed")
	s.publish(domain.OrderStateChange, order)

	return order, nil
}

// GetOrdersForAccount returns the account's orders, oldest first.
func (s *OrderService) GetOrdersForAccount(ctx context.Context, accountID int64) ([]*domain.Order, error) {
	orders, err := s.orders.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	slices.SortFunc(orders, func(a, b *domain.Order) int { return cmp.Compare(a.ID, b.ID) })
	return orders, nil
}

// GetOrderDetail decodes the order's line items and resolves their names.
func (s *OrderService) GetOrderDetail(ctx context.Context, orderID int64) (*ports.OrderDetail, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order detail: %w", err)
	}
	return s.DescribeOrder(ctx, order)
}

// DescribeOrder is GetOrderDetail for an order the caller already loaded.
func (s *OrderService) DescribeOrder(ctx context.Context, order *domain.Order) (*ports.OrderDetail, error) {
	detail, err := lineitem.DecodeDetail(ctx, order.Items, itemNames{items: s.items})
	if err != nil {
		if errors.Is(err, domain.ErrMalformedLineItemField) {
			s.log.Error().Err(err).Int64("order_id", order.ID).Msg("stored line items are corrupt")
		}
		return nil, fmt.Errorf("order detail: %w", err)
	}

	return &ports.OrderDetail{
		Order:         order,
		Lines:         detail.Lines,
		TotalQuantity: detail.TotalQuantity,
	}, nil
}

func (s *OrderService) ListAllOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) publish(typ domain.OrderEventType, order *domain.Order) {
	if s.events == nil {
		return
	}
	s.events.Publish(domain.OrderEvent{
		Type:       typ,
		OrderID:    order.ID,
		AccountID:  order.AccountID,
		State:      order.State,
		TotalPrice: order.TotalPrice,
		OccurredAt: time.Now().UTC(),
	})
}

func removedItemName(itemID int64) string {
	return fmt.Sprintf("#%d (removed)", itemID)
}

// itemNames adapts the item store to the codec's name lookup.
type itemNames struct {
	items ports.ItemRepository
}

func (n itemNames) ItemName(ctx context.Context, itemID int64) (string, error) {
	item, err := n.items.GetByID(ctx, itemID)
	if errors.Is(err, domain.ErrItemNotFound) {
		// The stored id, price and quantity still describe the line.
		return removedItemName(itemID), nil
	}
	if err != nil {
		return "", err
	}
	return item.Name, nil
}
