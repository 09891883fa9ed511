package entity

import (
	"time"

	"github.com/google/uuid"
)

// RideCoordinates is optional per ride; either pair may be missing.
type RideCoordinates struct {
	RideID      uuid.UUID `db:"ride_id"`
	FromLat     *float64  `db:"from_lat"`
	FromLng     *float64  `db:"from_lng"`
	ToLat       *float64  `db:"to_lat"`
	ToLng       *float64  `db:"to_lng"`
	FromGeohash *string   `db:"from_geohash"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (c *RideCoordinates) HasOrigin() bool {
	return c != nil && c.FromLat != nil && c.FromLng != nil
}
