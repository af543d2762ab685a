package queue

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cakeorder/bakery-storefront/internal/core/domain"
	"github.com/cakeorder/bakery-storefront/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes order events to a fixed set of workers sharded by account
// id, so events of one account are delivered in publish order.
type Dispatcher struct {
	workers  []chan domain.OrderEvent
	notifier ports.OrderNotifier
	log      zerolog.Logger
	wg       sync.WaitGroup
}

var _ ports.OrderEventPublisher = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, notifier ports.OrderNotifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan domain.OrderEvent, numWorkers),
		notifier: notifier,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.OrderEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Publish hands the event to its shard without blocking. A full shard drops
// the event; the order itself is already persisted.
func (d *Dispatcher) Publish(event domain.OrderEvent) {
	idx := d.shardIndex(event.AccountID)
	select {
	case d.workers[idx] <- event:
	default:
		d.log.Warn().
			Int64("order_id", event.OrderID).
			Str("type", string(event.Type)).
			Int("worker_id", idx).
			Msg("order event queue full, event dropped")
	}
}

// shardIndex maps an account id deterministically to a worker index.
func (d *Dispatcher) shardIndex(accountID int64) int {
	n := int64(len(d.workers))
	return int(((accountID % n) + n) % n)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.OrderEvent) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.notifier.Notify(ctx, event); err != nil {
				d.log.Error().Err(err).
					Int64("order_id", event.OrderID).
					Str("type", string(event.Type)).
					Int("worker_id", id).
					Msg("order notification failed")
			}
		}
	}
}
