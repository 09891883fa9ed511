package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingCompleted EventType = "booking.completed"
	EventRideCancelled    EventType = "ride.cancelled"
)

// OutboxEvent is a committed side effect waiting for delivery.
type OutboxEvent struct {
	BaseSimple
	AggregateID uuid.UUID       `db:"aggregate_id"`
	EventType   EventType       `db:"event_type"`
	RecipientID uuid.UUID       `db:"recipient_id"`
	Payload     json.RawMessage `db:"payload"`
	Attempts    int             `db:"attempts"`
	LastError   *string         `db:"last_error"`
	DeliveredAt *time.Time      `db:"delivered_at"`
}

// EventPayload is the JSON body stored with every outbox event.
type EventPayload struct {
	BookingID   *uuid.UUID `json:"booking_id,omitempty"`
	RideID      uuid.UUID  `json:"ride_id"`
	DriverID    uuid.UUID  `json:"driver_id"`
	PassengerID uuid.UUID  `json:"passenger_id"`
	SeatsBooked int        `json:"seats_booked,omitempty"`
	Status      string     `json:"status,omitempty"`
	FromCity    string     `json:"from_city"`
	ToCity      string     `json:"to_city"`
	DepartureAt time.Time  `json:"departure_at"`
}
