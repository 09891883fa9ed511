package adaptor

import (
	"net/http"

	"ride-booking/internal/dto/request"
	"ride-booking/internal/usecase"
	"ride-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var req request.CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), caller, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create booking",
			zap.String("user_id", caller.UserID.String()),
			zap.String("ride_id", req.RideID))
		return
	}

	utils.ResponseCreated(w, "Booking created", booking)
}

// UpdateBooking handles PUT /api/bookings/{id} (driver or passenger)
func (h *BookingHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	bookingID := chi.URLParam(r, "id")

	var req request.UpdateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.UpdateBooking(r.Context(), caller, bookingID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update booking",
			zap.String("user_id", caller.UserID.String()),
			zap.String("booking_id", bookingID),
			zap.String("status", req.Status))
		return
	}

	utils.ResponseSuccess(w, "Booking updated", booking)
}

// GetBooking handles GET /api/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	bookingID := chi.URLParam(r, "id")

	booking, err := h.service.GetBooking(r.Context(), caller, bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "get booking", zap.String("booking_id", bookingID))
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// ListMyBookings handles GET /api/bookings (protected)
func (h *BookingHandler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := request.BookingListRequest{
		PaginatedRequest: paginationFrom(query),
		RideID:           query.Get("ride_id"),
		Status:           query.Get("status"),
	}
	if !validated(w, req) {
		return
	}

	bookings, err := h.service.ListMyBookings(r.Context(), caller, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "list my bookings", zap.String("user_id", caller.UserID.String()))
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// ListRideBookings handles GET /api/rides/{id}/bookings (driver, participants, admin)
func (h *BookingHandler) ListRideBookings(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	rideID := chi.URLParam(r, "id")

	bookings, err := h.service.ListRideBookings(r.Context(), caller, rideID)
	if err != nil {
		handleServiceError(w, h.log, err, "list ride bookings", zap.String("ride_id", rideID))
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}
