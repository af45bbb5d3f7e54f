package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/api/metrics"
	"github.com/storefront/storefront-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes order events to a fixed set of workers using consistent
// hashing on the customer name, guaranteeing per-customer event ordering.
type Dispatcher struct {
	workers []chan ports.OrderEvent
	handler ports.OrderEventHandler
	log     zerolog.Logger
	wg      sync.WaitGroup

	// done is closed once the Start context ends.
	done     chan struct{}
	stopOnce sync.Once
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, handler ports.OrderEventHandler, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.OrderEvent, numWorkers),
		handler: handler,
		log:     log,
		done:    make(chan struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.OrderEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled,
// after which Publish drops events instead of blocking.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		d.stopOnce.Do(func() { close(d.done) })
	}()
}

// Wait blocks until every worker has stopped.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Publish sends an event to the worker responsible for its customer.
// The call is non-blocking up to channelBuffer capacity. Once the dispatcher
// has stopped the event is dropped and logged.
func (d *Dispatcher) Publish(event ports.OrderEvent) {
	idx := d.shardIndex(event.Order.CustomerName)
	select {
	case <-d.done:
		d.drop(event)
		return
	default:
	}
	select {
	case d.workers[idx] <- event:
		metrics.OrderEventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	case <-d.done:
		d.drop(event)
	}
}

func (d *Dispatcher) drop(event ports.OrderEvent) {
	metrics.OrderEventsDroppedTotal.Inc()
	d.log.Warn().
		Str("order_id", event.Order.ID).
		Str("customer", event.Order.CustomerName).
		Msg("dispatcher stopped, order event dropped")
}

// shardIndex maps a customer name deterministically to a worker index.
func (d *Dispatcher) shardIndex(customer string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(customer))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.OrderEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.OrderEventsQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if err := d.handler.HandleOrder(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("order_id", event.Order.ID).
					Int("worker_id", id).
					Msg("order event handling failed")
			}
		}
	}
}
