package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ride-booking/internal/data/entity"
	"ride-booking/internal/data/repository"
	"ride-booking/pkg/metrics"

	"github.com/google/uuid"
)

// transition moves a booking to status to. The ride row must already be
// locked by the caller. Cancelling returns the booking's seats.
func transition(ctx context.Context, repo *repository.Repository, b *entity.Booking, to entity.BookingStatus) error {
	from := b.Status
	if !from.CanTransitionTo(to) {
		return entity.ErrInvalidTransition
	}

	ok, err := repo.Booking.TransitionStatus(ctx, b.ID, from, to)
	if err != nil {
		return err
	}
	if !ok {
		// someone else moved it first
		return entity.ErrInvalidTransition
	}

	if to == entity.BookingStatusCancelled {
		if _, err := repo.Inventory.Release(ctx, b.RideID, b.SeatsBooked); err != nil {
			return err
		}
	}

	b.Status = to
	b.Touch(time.Now())
	metrics.BookingTransitions.WithLabelValues(string(from), string(to)).Inc()
	return nil
}

// cancelRide cancels every outstanding booking of ride and then the ride itself.
func cancelRide(ctx context.Context, repo *repository.Repository, ride *entity.Ride) (int, []*entity.OutboxEvent, error) {
	bookings, err := repo.Booking.FindActiveByRide(ctx, ride.ID)
	if err != nil {
		return 0, nil, err
	}

	events := make([]*entity.OutboxEvent, 0, len(bookings))
	for _, b := range bookings {
		if err := transition(ctx, repo, b, entity.BookingStatusCancelled); err != nil {
			return 0, nil, fmt.Errorf("cancel booking %s: %w", b.ID, err)
		}
		ev, err := rideCancelledEvent(ride, b)
		if err != nil {
			return 0, nil, err
		}
		events = append(events, ev)
	}

	if err := repo.Ride.UpdateStatus(ctx, ride.ID, entity.RideStatusCancelled); err != nil {
		return 0, nil, err
	}
	ride.Status = entity.RideStatusCancelled
	ride.Touch(time.Now())
	metrics.RidesCancelled.Inc()

	return len(bookings), events, nil
}

// completeRide finishes confirmed bookings and drops the ones never confirmed.
func completeRide(ctx context.Context, repo *repository.Repository, ride *entity.Ride) ([]*entity.OutboxEvent, error) {
	bookings, err := repo.Booking.FindActiveByRide(ctx, ride.ID)
	if err != nil {
		return nil, err
	}

	events := make([]*entity.OutboxEvent, 0, len(bookings))
	for _, b := range bookings {
		to := entity.BookingStatusCompleted
		if b.Status == entity.BookingStatusPending {
			to = entity.BookingStatusCancelled
		}
		if err := transition(ctx, repo, b, to); err != nil {
			return nil, fmt.Errorf("close booking %s: %w", b.ID, err)
		}
		ev, err := bookingEvent(b, ride, ride.DriverID)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	if err := repo.Ride.UpdateStatus(ctx, ride.ID, entity.RideStatusCompleted); err != nil {
		return nil, err
	}
	ride.Status = entity.RideStatusCompleted
	ride.Touch(time.Now())

	return events, nil
}

func parseID(kind, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s id %q", entity.ErrInvalidInput, kind, raw)
	}
	return id, nil
}

var domainKinds = []error{
	entity.ErrUnauthenticated,
	entity.ErrForbidden,
	entity.ErrNotFound,
	entity.ErrInvalidInput,
	entity.ErrInsufficientSeats,
	entity.ErrInvalidTransition,
	entity.ErrConflict,
}

// isDomainError reports whether err is an expected outcome rather than a fault.
func isDomainError(err error) bool {
	for _, kind := range domainKinds {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, entity.ErrInsufficientSeats):
		return "insufficient_seats"
	case errors.Is(err, entity.ErrNotFound):
		return "not_found"
	case errors.Is(err, entity.ErrRideNotBookable):
		return "not_bookable"
	case errors.Is(err, entity.ErrDuplicateBooking):
		return "duplicate"
	case errors.Is(err, entity.ErrSelfBooking):
		return "self_booking"
	case errors.Is(err, entity.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, entity.ErrUnauthenticated), errors.Is(err, entity.ErrForbidden):
		return "forbidden"
	default:
		return "internal"
	}
}
