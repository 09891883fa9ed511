package adaptor

import (
	"net/http"

	"ride-booking/internal/dto/request"
	"ride-booking/internal/usecase"
	"ride-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AdminHandler struct {
	service usecase.AdminService
	log     *zap.Logger
}

func NewAdminHandler(service usecase.AdminService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		log:     log.With(zap.String("handler", "admin")),
	}
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	req := paginationFrom(r.URL.Query())
	users, err := h.service.ListUsers(r.Context(), caller, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "list users")
		return
	}

	utils.ResponseSuccess(w, "success", users)
}

// SetBanned handles PUT /api/admin/users/{id}/ban
func (h *AdminHandler) SetBanned(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	userID := chi.URLParam(r, "id")

	var req request.BanUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.service.SetBanned(r.Context(), caller, userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "set user ban",
			zap.String("admin_id", caller.UserID.String()),
			zap.String("user_id", userID))
		return
	}

	h.log.Info("User ban updated",
		zap.String("admin_id", caller.UserID.String()),
		zap.String("user_id", userID),
		zap.Bool("is_banned", *req.IsBanned))
	utils.ResponseSuccess(w, "User updated", profile)
}

// ListBookings handles GET /api/admin/bookings
func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := request.BookingListRequest{
		PaginatedRequest: paginationFrom(query),
		RideID:           query.Get("ride_id"),
		Status:           query.Get("status"),
		PassengerID:      query.Get("passenger_id"),
	}
	if !validated(w, req) {
		return
	}

	bookings, err := h.service.ListBookings(r.Context(), caller, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "list all bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}
