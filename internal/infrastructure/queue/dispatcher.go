package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/studorg/counter-system/internal/core/domain"
	"github.com/studorg/counter-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes permanency records to a fixed set of workers using
// consistent hashing on the counter ID, guaranteeing per-counter write
// ordering in the attendance log. It implements the session registry's
// AttendanceRecorder, so evictions never block on the database.
type Dispatcher struct {
	workers []chan domain.Permanency
	repo    ports.AttendanceRepository
	log     zerolog.Logger
	onDrop  func()
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. onDrop, when non-nil, is
// invoked for every record discarded because a worker queue was full.
func NewDispatcher(numWorkers int, repo ports.AttendanceRepository, log zerolog.Logger, onDrop func()) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.Permanency, numWorkers),
		repo:    repo,
		log:     log,
		onDrop:  onDrop,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Permanency, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues a permanency for the worker responsible for its counter.
// It never blocks: the registry calls it holding its lock, so when the worker
// queue is full the record is dropped and logged rather than stalling every
// session operation.
func (d *Dispatcher) Record(p domain.Permanency) {
	select {
	case d.workers[d.shardIndex(p.CounterID)] <- p:
	default:
		d.log.Error().
			Str("counter_id", p.CounterID).
			Str("operator_id", p.OperatorID).
			Msg("attendance queue full, record dropped")
		if d.onDrop != nil {
			d.onDrop()
		}
	}
}

// shardIndex maps a counter ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(counterID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(counterID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Permanency) {
	for {
		select {
		case <-ctx.Done():
			return
		case p, ok := <-ch:
			if !ok {
				return
			}
			if err := d.repo.Append(ctx, &p); err != nil {
				d.log.Error().Err(err).
					Str("counter_id", p.CounterID).
					Str("operator_id", p.OperatorID).
					Int("worker_id", id).
					Msg("attendance write failed")
			}
		}
	}
}
