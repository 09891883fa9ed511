package response

import (
	"time"

	"ride-booking/internal/data/entity"
	"ride-booking/internal/geo"
)

type UserSummaryResponse struct {
	ID         string  `json:"id"`
	FullName   *string `json:"full_name"`
	AvatarURL  *string `json:"avatar_url"`
	Rating     float64 `json:"rating"`
	TripsCount int     `json:"trips_count"`
	IsVerified bool    `json:"is_verified"`
}

type CoordinatesResponse struct {
	RideID      string     `json:"ride_id"`
	From        *geo.Point `json:"from,omitempty"`
	To          *geo.Point `json:"to,omitempty"`
	FromGeohash *string    `json:"from_geohash,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type RideResponse struct {
	ID                string               `json:"id"`
	DriverID          string               `json:"driver_id"`
	FromCity          string               `json:"from_city"`
	FromAddress       *string              `json:"from_address"`
	ToCity            string               `json:"to_city"`
	ToAddress         *string              `json:"to_address"`
	DepartureAt       time.Time            `json:"departure_at"`
	DepartureDate     string               `json:"departure_date"`
	DepartureTime     string               `json:"departure_time"`
	EstimatedDuration *int                 `json:"estimated_duration"`
	Price             float64              `json:"price"`
	SeatsTotal        int                  `json:"seats_total"`
	SeatsAvailable    int                  `json:"seats_available"`
	Status            entity.RideStatus    `json:"status"`
	AllowSmoking      bool                 `json:"allow_smoking"`
	AllowPets         bool                 `json:"allow_pets"`
	AllowMusic        bool                 `json:"allow_music"`
	Notes             *string              `json:"notes"`
	Driver            *UserSummaryResponse `json:"driver,omitempty"`
	Coordinates       *CoordinatesResponse `json:"coordinates,omitempty"`
	Distance          *float64             `json:"distance,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

type NearbyRidesResponse struct {
	Rides  []RideResponse `json:"rides"`
	Center geo.Point      `json:"center"`
	Radius float64        `json:"radius"`
	Count  int            `json:"count"`
}

type DeleteRideOutcome string

const (
	RideDeleted   DeleteRideOutcome = "deleted"
	RideCancelled DeleteRideOutcome = "cancelled"
)

type DeleteRideResponse struct {
	RideID            string            `json:"ride_id"`
	Outcome           DeleteRideOutcome `json:"outcome"`
	CancelledBookings int               `json:"cancelled_bookings"`
}

// Helper converters
func UserSummaryToResponse(s entity.DriverSummary) UserSummaryResponse {
	return UserSummaryResponse{
		ID:         s.ID.String(),
		FullName:   s.FullName,
		AvatarURL:  s.AvatarURL,
		Rating:     s.Rating,
		TripsCount: s.TripsCount,
		IsVerified: s.IsVerified,
	}
}

func CoordinatesToResponse(c *entity.RideCoordinates) *CoordinatesResponse {
	if c == nil {
		return nil
	}
	resp := &CoordinatesResponse{
		RideID:      c.RideID.String(),
		FromGeohash: c.FromGeohash,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.FromLat != nil && c.FromLng != nil {
		resp.From = &geo.Point{Lat: *c.FromLat, Lng: *c.FromLng}
	}
	if c.ToLat != nil && c.ToLng != nil {
		resp.To = &geo.Point{Lat: *c.ToLat, Lng: *c.ToLng}
	}
	return resp
}

func RideToResponse(r *entity.Ride) RideResponse {
	departure := r.DepartureAt.UTC()
	return RideResponse{
		ID:                r.ID.String(),
		DriverID:          r.DriverID.String(),
		FromCity:          r.FromCity,
		FromAddress:       r.FromAddress,
		ToCity:            r.ToCity,
		ToAddress:         r.ToAddress,
		DepartureAt:       departure,
		DepartureDate:     departure.Format("2006-01-02"),
		DepartureTime:     departure.Format("15:04"),
		EstimatedDuration: r.EstimatedDuration,
		Price:             r.Price,
		SeatsTotal:        r.SeatsTotal,
		SeatsAvailable:    r.SeatsAvailable,
		Status:            r.Status,
		AllowSmoking:      r.AllowSmoking,
		AllowPets:         r.AllowPets,
		AllowMusic:        r.AllowMusic,
		Notes:             r.Notes,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func RideWithDriverToResponse(r *entity.RideWithDriver) RideResponse {
	resp := RideToResponse(&r.Ride)
	driver := UserSummaryToResponse(r.Driver)
	resp.Driver = &driver
	resp.Coordinates = CoordinatesToResponse(r.Coordinates)
	return resp
}
