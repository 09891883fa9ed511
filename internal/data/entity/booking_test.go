package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{BookingStatusPending, BookingStatusConfirmed, true},
		{BookingStatusPending, BookingStatusCancelled, true},
		{BookingStatusPending, BookingStatusCompleted, false},
		{BookingStatusPending, BookingStatusPending, false},
		{BookingStatusConfirmed, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusCompleted, true},
		{BookingStatusConfirmed, BookingStatusPending, false},
		{BookingStatusCancelled, BookingStatusPending, false},
		{BookingStatusCancelled, BookingStatusConfirmed, false},
		{BookingStatusCompleted, BookingStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestBookingStatus_Classification(t *testing.T) {
	assert.True(t, BookingStatusPending.Active())
	assert.True(t, BookingStatusConfirmed.Active())
	assert.False(t, BookingStatusCancelled.Active())
	assert.True(t, BookingStatusCancelled.Terminal())
	assert.True(t, BookingStatusCompleted.Terminal())
	assert.False(t, BookingStatus("expired").Valid())
	assert.False(t, PaymentStatus("settled").Valid())
}

func TestErrorKinds(t *testing.T) {
	assert.True(t, errors.Is(ErrRideNotFound, ErrNotFound))
	assert.True(t, errors.Is(ErrInvalidSeatCount, ErrInvalidInput))
	assert.True(t, errors.Is(ErrSelfBooking, ErrForbidden))
	assert.True(t, errors.Is(ErrDuplicateBooking, ErrConflict))
	assert.False(t, errors.Is(ErrInsufficientSeats, ErrConflict))
}

func TestRide_SeatsBooked(t *testing.T) {
	r := Ride{SeatsTotal: 4, SeatsAvailable: 1}
	assert.Equal(t, 3, r.SeatsBooked())
}
