package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ride-booking/internal/data/entity"
	"ride-booking/internal/data/repository"

	"go.uber.org/zap"
)

const dateTimeLayout = "2006-01-02 15:04"

// NotificationDispatcher stores an in-app notification for the event's
// recipient. The notification reuses the event id so retries are no-ops.
type NotificationDispatcher struct {
	repo repository.NotificationRepository
	log  *zap.Logger
}

func NewNotificationDispatcher(repo repository.NotificationRepository, log *zap.Logger) *NotificationDispatcher {
	return &NotificationDispatcher{
		repo: repo,
		log:  log.With(zap.String("dispatcher", "notification")),
	}
}

func (d *NotificationDispatcher) Name() string { return "notification" }

func (d *NotificationDispatcher) Dispatch(ctx context.Context, event *entity.OutboxEvent) error {
	var payload entity.EventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("decode payload of event %s: %w", event.ID, err)
	}

	title, message := render(event.EventType, payload)

	n := &entity.Notification{
		BaseSimple: entity.BaseSimple{
			ID:        event.ID,
			CreatedAt: time.Now(),
		},
		UserID:  event.RecipientID,
		Type:    event.EventType,
		Title:   title,
		Message: message,
		Data:    event.Payload,
	}

	if err := d.repo.Create(ctx, n); err != nil {
		return err
	}

	d.log.Debug("Notification stored",
		zap.String("event_id", event.ID.String()),
		zap.String("user_id", event.RecipientID.String()),
	)
	return nil
}

func render(eventType entity.EventType, p entity.EventPayload) (string, string) {
	route := fmt.Sprintf("%s to %s on %s", p.FromCity, p.ToCity, p.DepartureAt.UTC().Format(dateTimeLayout))

	switch eventType {
	case entity.EventBookingCreated:
		return "New booking request",
			fmt.Sprintf("A passenger requested %d seat(s) on your ride %s.", p.SeatsBooked, route)
	case entity.EventBookingConfirmed:
		return "Booking confirmed",
			fmt.Sprintf("Your booking for %d seat(s) on the ride %s was confirmed.", p.SeatsBooked, route)
	case entity.EventBookingCancelled:
		return "Booking cancelled",
			fmt.Sprintf("The booking for %d seat(s) on the ride %s was cancelled.", p.SeatsBooked, route)
	case entity.EventBookingCompleted:
		return "Ride completed",
			fmt.Sprintf("Your ride %s is complete.", route)
	case entity.EventRideCancelled:
		return "Ride cancelled",
			fmt.Sprintf("The driver cancelled the ride %s. Your booking was cancelled.", route)
	default:
		return string(eventType), route
	}
}
