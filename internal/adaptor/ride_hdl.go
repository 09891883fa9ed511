package adaptor

import (
	"net/http"

	"ride-booking/internal/dto/request"
	"ride-booking/internal/dto/response"
	"ride-booking/internal/usecase"
	"ride-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type RideHandler struct {
	service usecase.RideService
	log     *zap.Logger
}

func NewRideHandler(service usecase.RideService, log *zap.Logger) *RideHandler {
	return &RideHandler{
		service: service,
		log:     log.With(zap.String("handler", "ride")),
	}
}

// CreateRide handles POST /api/rides (protected)
func (h *RideHandler) CreateRide(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var req request.CreateRideRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ride, err := h.service.CreateRide(r.Context(), caller, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create ride", zap.String("user_id", caller.UserID.String()))
		return
	}

	utils.ResponseCreated(w, "Ride created", ride)
}

// SearchRides handles GET /api/rides (public)
func (h *RideHandler) SearchRides(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	errs := queryErrors{}

	req := request.SearchRidesRequest{
		PaginatedRequest: paginationFrom(query),
		From:             query.Get("from"),
		To:               query.Get("to"),
		Date:             query.Get("date"),
		DateFrom:         query.Get("date_from"),
		DateTo:           query.Get("date_to"),
		Passengers:       utils.ParseInt(query.Get("passengers"), 0),
		MinPrice:         errs.floatPtr(query, "min_price"),
		MaxPrice:         errs.floatPtr(query, "max_price"),
		AllowSmoking:     errs.boolPtr(query, "allow_smoking"),
		AllowPets:        errs.boolPtr(query, "allow_pets"),
		AllowMusic:       errs.boolPtr(query, "allow_music"),
		SortBy:           query.Get("sort_by"),
	}
	if errs.respond(w) || !validated(w, req) {
		return
	}

	rides, err := h.service.SearchRides(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "search rides")
		return
	}

	utils.ResponseSuccess(w, "success", rides)
}

// MyRides handles GET /api/rides/my (protected)
func (h *RideHandler) MyRides(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := request.MyRidesRequest{
		PaginatedRequest: paginationFrom(query),
		Status:           query.Get("status"),
	}
	if !validated(w, req) {
		return
	}

	rides, err := h.service.MyRides(r.Context(), caller, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "list my rides", zap.String("user_id", caller.UserID.String()))
		return
	}

	utils.ResponseSuccess(w, "success", rides)
}

// GetRide handles GET /api/rides/{id} (public)
func (h *RideHandler) GetRide(w http.ResponseWriter, r *http.Request) {
	rideID := chi.URLParam(r, "id")

	ride, err := h.service.GetRide(r.Context(), rideID)
	if err != nil {
		handleServiceError(w, h.log, err, "get ride", zap.String("ride_id", rideID))
		return
	}

	utils.ResponseSuccess(w, "success", ride)
}

// UpdateRide handles PUT /api/rides/{id} (owner)
func (h *RideHandler) UpdateRide(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	rideID := chi.URLParam(r, "id")

	var req request.UpdateRideRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ride, err := h.service.UpdateRide(r.Context(), caller, rideID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update ride",
			zap.String("user_id", caller.UserID.String()),
			zap.String("ride_id", rideID))
		return
	}

	utils.ResponseSuccess(w, "Ride updated", ride)
}

// DeleteRide handles DELETE /api/rides/{id} (owner). Rides with active
// bookings are cancelled instead of removed.
func (h *RideHandler) DeleteRide(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	rideID := chi.URLParam(r, "id")

	result, err := h.service.DeleteRide(r.Context(), caller, rideID)
	if err != nil {
		handleServiceError(w, h.log, err, "delete ride",
			zap.String("user_id", caller.UserID.String()),
			zap.String("ride_id", rideID))
		return
	}

	message := "Ride deleted"
	if result.Outcome == response.RideCancelled {
		message = "Ride cancelled (had active bookings)"
	}
	utils.ResponseSuccess(w, message, result)
}
