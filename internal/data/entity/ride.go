package entity

import (
	"time"

	"github.com/google/uuid"
)

type RideStatus string

const (
	RideStatusActive    RideStatus = "active"
	RideStatusCancelled RideStatus = "cancelled"
	RideStatusCompleted RideStatus = "completed"
)

func (s RideStatus) Valid() bool {
	switch s {
	case RideStatusActive, RideStatusCancelled, RideStatusCompleted:
		return true
	}
	return false
}

type Ride struct {
	Base
	DriverID          uuid.UUID  `db:"driver_id"`
	FromCity          string     `db:"from_city"`
	FromAddress       *string    `db:"from_address"`
	ToCity            string     `db:"to_city"`
	ToAddress         *string    `db:"to_address"`
	DepartureAt       time.Time  `db:"departure_at"`
	EstimatedDuration *int       `db:"estimated_duration"` // minutes
	Price             float64    `db:"price"`
	SeatsTotal        int        `db:"seats_total"`
	SeatsAvailable    int        `db:"seats_available"`
	Status            RideStatus `db:"status"`
	AllowSmoking      bool       `db:"allow_smoking"`
	AllowPets         bool       `db:"allow_pets"`
	AllowMusic        bool       `db:"allow_music"`
	Notes             *string    `db:"notes"`
}

// SeatsBooked is the number of seats held by pending and confirmed bookings.
func (r *Ride) SeatsBooked() int {
	return r.SeatsTotal - r.SeatsAvailable
}

// DriverSummary is the denormalized driver block returned with rides.
type DriverSummary struct {
	ID         uuid.UUID `db:"id"`
	FullName   *string   `db:"full_name"`
	AvatarURL  *string   `db:"avatar_url"`
	Rating     float64   `db:"rating"`
	TripsCount int       `db:"trips_count"`
	IsVerified bool      `db:"is_verified"`
}

// RideWithDriver is a ride joined with its driver's profile and coordinates.
type RideWithDriver struct {
	Ride
	Driver      DriverSummary
	Coordinates *RideCoordinates
}

type RideSearchFilter struct {
	From         string
	To           string
	DateFrom     *time.Time
	DateTo       *time.Time
	Passengers   int
	MinPrice     *float64
	MaxPrice     *float64
	AllowSmoking *bool
	AllowPets    *bool
	AllowMusic   *bool
	SortBy       string
	Limit        int
	Offset       int
}
