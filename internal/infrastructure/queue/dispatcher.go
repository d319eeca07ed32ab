package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/propertydesk/crm-api/internal/api/metrics"
	"github.com/propertydesk/crm-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// Dispatcher routes lead submissions to a fixed set of workers using
// consistent hashing on the contact key, guaranteeing per-contact ordering
// so the dedup check and the customer insert never race for one lead.
type Dispatcher struct {
	workers []chan ports.LeadInput
	service ports.LeadService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.LeadService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.LeadInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.LeadInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a lead to the worker responsible for its contact key.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(lead ports.LeadInput) {
	idx := d.shardIndex(lead.ContactKey())
	d.workers[idx] <- lead
	metrics.LeadQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// EnqueueBatch enqueues multiple leads preserving per-contact ordering.
func (d *Dispatcher) EnqueueBatch(leads []ports.LeadInput) {
	for _, l := range leads {
		d.Enqueue(l)
	}
}

// shardIndex maps a contact key deterministically to a worker index.
func (d *Dispatcher) shardIndex(contact string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(contact))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.LeadInput) {
	for {
		select {
		case <-ctx.Done():
			return
		case lead, ok := <-ch:
			if !ok {
				return
			}
			metrics.LeadQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			if err := d.service.Process(ctx, lead); err != nil {
				d.log.Error().Err(err).
					Str("contact", lead.ContactKey()).
					Int("worker_id", id).
					Msg("lead processing failed")
			}
		}
	}
}
