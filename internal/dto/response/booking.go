package response

import (
	"time"

	"ride-booking/internal/data/entity"
)

type BookingResponse struct {
	ID            string               `json:"id"`
	RideID        string               `json:"ride_id"`
	PassengerID   string               `json:"passenger_id"`
	SeatsBooked   int                  `json:"seats_booked"`
	TotalPrice    float64              `json:"total_price"`
	Status        entity.BookingStatus `json:"status"`
	PaymentStatus entity.PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

type BookingWithRideResponse struct {
	BookingResponse
	Ride RideResponse `json:"ride"`
}

type RideBookingResponse struct {
	BookingResponse
	Passenger UserSummaryResponse `json:"passenger"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID.String(),
		RideID:        b.RideID.String(),
		PassengerID:   b.PassengerID.String(),
		SeatsBooked:   b.SeatsBooked,
		TotalPrice:    b.TotalPrice,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func BookingWithRideToResponse(b *entity.BookingWithRide) BookingWithRideResponse {
	ride := RideToResponse(&b.Ride)
	driver := UserSummaryToResponse(b.Driver)
	ride.Driver = &driver
	return BookingWithRideResponse{
		BookingResponse: BookingToResponse(&b.Booking),
		Ride:            ride,
	}
}

func RideBookingToResponse(b *entity.BookingWithPassenger) RideBookingResponse {
	return RideBookingResponse{
		BookingResponse: BookingToResponse(&b.Booking),
		Passenger:       UserSummaryToResponse(b.Passenger),
	}
}
