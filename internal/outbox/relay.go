// Package outbox delivers committed events to their dispatchers.
package outbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ride-booking/internal/data/entity"
	"ride-booking/internal/data/repository"
	"ride-booking/pkg/metrics"
	"ride-booking/pkg/utils"

	"go.uber.org/zap"
)

// Dispatcher delivers one event. Delivery is at least once, so Dispatch must
// tolerate repeats of the same event id.
type Dispatcher interface {
	Name() string
	Dispatch(ctx context.Context, event *entity.OutboxEvent) error
}

type Relay struct {
	tx          repository.Transactor
	dispatchers []Dispatcher
	interval    time.Duration
	batchSize   int
	maxAttempts int
	wake        chan struct{}
	done        chan struct{}
	log         *zap.Logger
}

func NewRelay(tx repository.Transactor, config utils.OutboxConfig, log *zap.Logger, dispatchers ...Dispatcher) *Relay {
	return &Relay{
		tx:          tx,
		dispatchers: dispatchers,
		interval:    config.Interval,
		batchSize:   config.BatchSize,
		maxAttempts: config.MaxAttempts,
		wake:        make(chan struct{}, 1),
		done:        make(chan struct{}),
		log:         log.With(zap.String("worker", "outbox")),
	}
}

// Signal asks for an early flush. It never blocks.
func (r *Relay) Signal() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Run flushes on every tick or signal until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.Info("Outbox relay started",
		zap.Duration("interval", r.interval),
		zap.Int("dispatchers", len(r.dispatchers)),
	)

	for {
		select {
		case <-ctx.Done():
			r.log.Info("Outbox relay stopped")
			return
		case <-ticker.C:
		case <-r.wake:
		}

		// keep going while full batches go through
		for {
			n, err := r.Flush(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					r.log.Error("Outbox flush failed", zap.Error(err))
				}
				break
			}
			if n < r.batchSize {
				break
			}
		}
	}
}

// Done is closed once Run has returned.
func (r *Relay) Done() <-chan struct{} {
	return r.done
}

// Flush handles one batch and returns how many events were delivered.
// Failed events stay pending until they run out of attempts.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	delivered := 0
	err := r.tx.WithinTx(ctx, func(repo *repository.Repository) error {
		events, err := repo.Outbox.FetchPending(ctx, r.batchSize, r.maxAttempts)
		if err != nil {
			return err
		}

		for _, event := range events {
			if err := r.deliver(ctx, event); err != nil {
				metrics.OutboxFailures.WithLabelValues(string(event.EventType)).Inc()
				r.log.Warn("Outbox delivery failed",
					zap.Error(err),
					zap.String("event_id", event.ID.String()),
					zap.String("event_type", string(event.EventType)),
					zap.Int("attempt", event.Attempts+1),
				)
				if err := repo.Outbox.MarkFailed(ctx, event.ID, err.Error()); err != nil {
					return err
				}
			} else {
				metrics.OutboxDelivered.WithLabelValues(string(event.EventType)).Inc()
				if err := repo.Outbox.MarkDelivered(ctx, event.ID); err != nil {
					return err
				}
				delivered++
			}
		}
		return nil
	})

	return delivered, err
}

func (r *Relay) deliver(ctx context.Context, event *entity.OutboxEvent) error {
	var errs []error
	for _, d := range r.dispatchers {
		if err := d.Dispatch(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.Name(), err))
		}
	}
	return errors.Join(errs...)
}
