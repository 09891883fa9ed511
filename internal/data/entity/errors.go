package entity

import (
	"errors"
	"fmt"
)

// Kinds. The HTTP layer maps on these with errors.Is.
var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientSeats = errors.New("not enough seats available")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrConflict          = errors.New("conflict")
)

var (
	ErrRideNotFound        = fmt.Errorf("ride %w", ErrNotFound)
	ErrBookingNotFound     = fmt.Errorf("booking %w", ErrNotFound)
	ErrProfileNotFound     = fmt.Errorf("profile %w", ErrNotFound)
	ErrCoordinatesNotFound = fmt.Errorf("coordinates %w", ErrNotFound)
	ErrNotificationMissing = fmt.Errorf("notification %w", ErrNotFound)

	ErrInvalidSeatCount   = fmt.Errorf("%w: seat count out of range", ErrInvalidInput)
	ErrInvalidStatus      = fmt.Errorf("%w: unknown status", ErrInvalidInput)
	ErrInvalidCoordinates = fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)

	ErrSelfBooking = fmt.Errorf("%w: driver cannot book own ride", ErrForbidden)
	ErrBanned      = fmt.Errorf("%w: account is banned", ErrForbidden)

	ErrRideNotBookable  = fmt.Errorf("%w: ride is not open for booking", ErrConflict)
	ErrDuplicateBooking = fmt.Errorf("%w: active booking already exists for this ride", ErrConflict)
	ErrRideClosed       = fmt.Errorf("%w: ride is no longer active", ErrConflict)
)
