package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ride-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Publisher is the slice of *nats.Conn the dispatcher needs.
type Publisher interface {
	PublishMsg(msg *nats.Msg) error
}

// Envelope is the message body published for every event.
type Envelope struct {
	ID          uuid.UUID        `json:"id"`
	Type        entity.EventType `json:"type"`
	AggregateID uuid.UUID        `json:"aggregate_id"`
	RecipientID uuid.UUID        `json:"recipient_id"`
	OccurredAt  time.Time        `json:"occurred_at"`
	Payload     json.RawMessage  `json:"payload"`
}

// NATSDispatcher publishes events on "<prefix>.<event type>". The event id
// travels in the Nats-Msg-Id header so JetStream streams can deduplicate.
type NATSDispatcher struct {
	pub    Publisher
	prefix string
	log    *zap.Logger
}

func NewNATSDispatcher(pub Publisher, prefix string, log *zap.Logger) *NATSDispatcher {
	return &NATSDispatcher{
		pub:    pub,
		prefix: prefix,
		log:    log.With(zap.String("dispatcher", "nats")),
	}
}

func (d *NATSDispatcher) Name() string { return "nats" }

func (d *NATSDispatcher) Subject(eventType entity.EventType) string {
	if d.prefix == "" {
		return string(eventType)
	}
	return d.prefix + "." + string(eventType)
}

func (d *NATSDispatcher) Dispatch(ctx context.Context, event *entity.OutboxEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(Envelope{
		ID:          event.ID,
		Type:        event.EventType,
		AggregateID: event.AggregateID,
		RecipientID: event.RecipientID,
		OccurredAt:  event.CreatedAt,
		Payload:     event.Payload,
	})
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.ID, err)
	}

	msg := nats.NewMsg(d.Subject(event.EventType))
	msg.Header.Set(nats.MsgIdHdr, event.ID.String())
	msg.Data = body

	if err := d.pub.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish %s: %w", msg.Subject, err)
	}

	d.log.Debug("Event published",
		zap.String("subject", msg.Subject),
		zap.String("event_id", event.ID.String()),
	)
	return nil
}
