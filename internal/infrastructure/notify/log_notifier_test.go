package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cakeorder/bakery-storefront/internal/core/domain"
)

func TestLogNotifier_WritesEvent(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(zerolog.New(&buf))

	err := n.Notify(context.Background(), domain.OrderEvent{
		Type:       domain.OrderPlaced,
		OrderID:    12,
		AccountID:  3,
		State:      domain.OrderUnconfirmed,
		TotalPrice: decimal.RequireFromString("82"),
		OccurredAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid log line: %v", err)
	}
	if entry["type"] != "order_placed" || entry["total"] != "82.00" || entry["component"] != "notifier" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["order_id"] != float64(12) {
		t.Fatalf("unexpected order_id: %v", entry["order_id"])
	}
}
