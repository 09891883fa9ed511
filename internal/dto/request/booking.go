package request

// seats_booked is range-checked by the booking service so that ride lookup
// failures are reported first.
type CreateBookingRequest struct {
	RideID      string `json:"ride_id" validate:"required,uuid"`
	SeatsBooked int    `json:"seats_booked"`
}

type UpdateBookingRequest struct {
	Status        string  `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	PaymentStatus *string `json:"payment_status,omitempty" validate:"omitempty,oneof=pending paid refunded"`
}

type BookingListRequest struct {
	PaginatedRequest
	RideID      string `validate:"omitempty,uuid"`
	Status      string `validate:"omitempty,oneof=pending confirmed cancelled completed"`
	PassengerID string `validate:"omitempty,uuid"`
}
