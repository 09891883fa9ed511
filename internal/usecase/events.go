package usecase

import (
	"encoding/json"
	"time"

	"ride-booking/internal/data/entity"

	"github.com/google/uuid"
)

// OutboxSignal wakes the relay after a commit that wrote events.
type OutboxSignal interface {
	Signal()
}

type noSignal struct{}

func (noSignal) Signal() {}

func newEvent(eventType entity.EventType, aggregateID, recipientID uuid.UUID, payload entity.EventPayload) (*entity.OutboxEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &entity.OutboxEvent{
		BaseSimple:  entity.NewBaseSimple(time.Now()),
		AggregateID: aggregateID,
		EventType:   eventType,
		RecipientID: recipientID,
		Payload:     data,
	}, nil
}

func bookingPayload(b *entity.Booking, ride *entity.Ride) entity.EventPayload {
	bookingID := b.ID
	return entity.EventPayload{
		BookingID:   &bookingID,
		RideID:      ride.ID,
		DriverID:    ride.DriverID,
		PassengerID: b.PassengerID,
		SeatsBooked: b.SeatsBooked,
		Status:      string(b.Status),
		FromCity:    ride.FromCity,
		ToCity:      ride.ToCity,
		DepartureAt: ride.DepartureAt,
	}
}

// bookingEvent builds the notification for a booking that just reached its
// current status. actor is whoever caused the change.
func bookingEvent(b *entity.Booking, ride *entity.Ride, actor uuid.UUID) (*entity.OutboxEvent, error) {
	var (
		eventType entity.EventType
		recipient = b.PassengerID
	)

	switch b.Status {
	case entity.BookingStatusPending:
		eventType = entity.EventBookingCreated
		recipient = ride.DriverID
	case entity.BookingStatusConfirmed:
		eventType = entity.EventBookingConfirmed
	case entity.BookingStatusCompleted:
		eventType = entity.EventBookingCompleted
	case entity.BookingStatusCancelled:
		eventType = entity.EventBookingCancelled
		if actor == b.PassengerID {
			recipient = ride.DriverID
		}
	default:
		return nil, entity.ErrInvalidStatus
	}

	return newEvent(eventType, b.ID, recipient, bookingPayload(b, ride))
}

func rideCancelledEvent(ride *entity.Ride, b *entity.Booking) (*entity.OutboxEvent, error) {
	payload := bookingPayload(b, ride)
	return newEvent(entity.EventRideCancelled, ride.ID, b.PassengerID, payload)
}
