package adaptor

import (
	"net/http"

	"ride-booking/internal/usecase"
	"ride-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	service usecase.NotificationService
	log     *zap.Logger
}

func NewNotificationHandler(service usecase.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		log:     log.With(zap.String("handler", "notification")),
	}
}

// List handles GET /api/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	req := paginationFrom(r.URL.Query())
	notifications, err := h.service.List(r.Context(), caller, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "list notifications", zap.String("user_id", caller.UserID.String()))
		return
	}

	utils.ResponseSuccess(w, "success", notifications)
}

// MarkRead handles PUT /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	notificationID := chi.URLParam(r, "id")

	if err := h.service.MarkRead(r.Context(), caller, notificationID); err != nil {
		handleServiceError(w, h.log, err, "mark notification read", zap.String("notification_id", notificationID))
		return
	}

	utils.ResponseSuccess(w, "Notification marked as read", nil)
}
