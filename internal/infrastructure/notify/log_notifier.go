// Package notify delivers order events to customers and staff. Templated email
// is handled outside this service; the log notifier records what would be sent.
package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/cakeorder/bakery-storefront/internal/core/domain"
	"github.com/cakeorder/bakery-storefront/internal/core/ports"
)

type LogNotifier struct {
	log zerolog.Logger
}

var _ ports.OrderNotifier = (*LogNotifier)(nil)

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With().Str("component", "notifier").Logger()}
}

func (n *LogNotifier) Notify(_ context.Context, e domain.OrderEvent) error {
	n.log.Info().
		Str("type", string(e.Type)).
		Int64("order_id", e.OrderID).
		Int64("account_id", e.AccountID).
		Str("state", string(e.State)).
		Str("total", e.TotalPrice.StringFixed(2)).
		Time("occurred_at", e.OccurredAt).
		Msg("order notification")
	return nil
}
