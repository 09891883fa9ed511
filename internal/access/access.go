// Package access holds the caller capability value and the checks that gate
// ride and booking operations.
package access

import (
	"ride-booking/internal/data/entity"

	"github.com/google/uuid"
)

// Caller is the resolved identity of whoever invokes an operation. It is
// passed explicitly into every usecase call.
type Caller struct {
	UserID  uuid.UUID
	IsAdmin bool
}

func (c Caller) Authenticated() bool {
	return c.UserID != uuid.Nil
}

// IsOwner reports whether the caller drives the ride.
func (c Caller) IsOwner(ride *entity.Ride) bool {
	return ride != nil && c.Authenticated() && c.UserID == ride.DriverID
}

// IsParticipant reports whether the caller owns the ride or holds an active
// booking in bookings, which must all belong to the ride.
func (c Caller) IsParticipant(ride *entity.Ride, bookings []*entity.Booking) bool {
	if c.IsOwner(ride) {
		return true
	}
	if !c.Authenticated() {
		return false
	}
	for _, b := range bookings {
		if b.PassengerID == c.UserID && b.Status.Active() {
			return true
		}
	}
	return false
}

// Role of a caller relative to one booking.
type Role int

const (
	RoleNone Role = iota
	RolePassenger
	RoleDriver
)

// BookingRole resolves the caller's role for a booking on ride. A caller who
// is both driver and passenger is treated as the driver.
func (c Caller) BookingRole(ride *entity.Ride, booking *entity.Booking) Role {
	switch {
	case c.IsOwner(ride):
		return RoleDriver
	case c.Authenticated() && booking != nil && booking.PassengerID == c.UserID:
		return RolePassenger
	default:
		return RoleNone
	}
}

// RequireOwner fails with ErrForbidden unless the caller owns the ride.
func RequireOwner(c Caller, ride *entity.Ride) error {
	if !c.IsOwner(ride) {
		return entity.ErrForbidden
	}
	return nil
}

// RequireAdmin fails with ErrForbidden unless the caller is an administrator.
func RequireAdmin(c Caller) error {
	if !c.Authenticated() || !c.IsAdmin {
		return entity.ErrForbidden
	}
	return nil
}

// CanListRideBookings allows owners, participants and administrators.
func CanListRideBookings(c Caller, ride *entity.Ride, bookings []*entity.Booking) error {
	if c.IsAdmin && c.Authenticated() {
		return nil
	}
	if !c.IsParticipant(ride, bookings) {
		return entity.ErrForbidden
	}
	return nil
}

// PermittedTarget reports whether a caller in role may request status to.
// Completion is never user initiated.
func PermittedTarget(role Role, to entity.BookingStatus) bool {
	switch role {
	case RoleDriver:
		return to == entity.BookingStatusConfirmed || to == entity.BookingStatusCancelled
	case RolePassenger:
		return to == entity.BookingStatusCancelled
	default:
		return false
	}
}
