package repository

import (
	"context"
	"fmt"

	"ride-booking/internal/data/entity"
	"ride-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OutboxRepository interface {
	Add(ctx context.Context, events ...*entity.OutboxEvent) error
	// FetchPending locks up to limit undelivered events; call it inside a transaction.
	FetchPending(ctx context.Context, limit, maxAttempts int) ([]*entity.OutboxEvent, error)
	MarkDelivered(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

type outboxRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewOutboxRepository(db database.Querier, log *zap.Logger) OutboxRepository {
	return &outboxRepository{
		db:  db,
		log: log.With(zap.String("repository", "outbox")),
	}
}

func (r *outboxRepository) Add(ctx context.Context, events ...*entity.OutboxEvent) error {
	query := `
		INSERT INTO outbox_events (id, aggregate_id, event_type, recipient_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, e := range events {
		_, err := r.db.Exec(ctx, query, e.ID, e.AggregateID, e.EventType, e.RecipientID, []byte(e.Payload), e.CreatedAt)
		if err != nil {
			r.log.Error("Failed to add outbox event",
				zap.Error(err),
				zap.String("event_type", string(e.EventType)),
				zap.String("aggregate_id", e.AggregateID.String()),
			)
			return fmt.Errorf("add outbox event %s: %w", e.EventType, err)
		}
	}

	return nil
}

func (r *outboxRepository) FetchPending(ctx context.Context, limit, maxAttempts int) ([]*entity.OutboxEvent, error) {
	query := `
		SELECT id, aggregate_id, event_type, recipient_id, payload, attempts, last_error, created_at, delivered_at
		FROM outbox_events
		WHERE delivered_at IS NULL AND attempts < $2
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`

	rows, err := r.db.Query(ctx, query, limit, maxAttempts)
	if err != nil {
		r.log.Error("Failed to fetch pending outbox events", zap.Error(err))
		return nil, fmt.Errorf("fetch pending outbox events: %w", err)
	}
	defer rows.Close()

	var events []*entity.OutboxEvent
	for rows.Next() {
		var (
			e       entity.OutboxEvent
			payload []byte
		)
		err := rows.Scan(
			&e.ID,
			&e.AggregateID,
			&e.EventType,
			&e.RecipientID,
			&payload,
			&e.Attempts,
			&e.LastError,
			&e.CreatedAt,
			&e.DeliveredAt,
		)
		if err != nil {
			r.log.Error("Failed to scan outbox row", zap.Error(err))
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		e.Payload = payload
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox rows: %w", err)
	}

	return events, nil
}

func (r *outboxRepository) MarkDelivered(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE outbox_events SET delivered_at = NOW(), attempts = attempts + 1 WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to mark outbox event delivered", zap.Error(err), zap.String("event_id", id.String()))
		return fmt.Errorf("mark outbox event %s delivered: %w", id, err)
	}
	return nil
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	_, err := r.db.Exec(ctx, `UPDATE outbox_events SET attempts = attempts + 1, last_error = $2 WHERE id = $1`, id, reason)
	if err != nil {
		r.log.Error("Failed to mark outbox event failed", zap.Error(err), zap.String("event_id", id.String()))
		return fmt.Errorf("mark outbox event %s failed: %w", id, err)
	}
	return nil
}
