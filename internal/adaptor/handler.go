package adaptor

import (
	"ride-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Ride         *RideHandler
	Booking      *BookingHandler
	Geo          *GeoHandler
	Admin        *AdminHandler
	Notification *NotificationHandler
	Health       *HealthHandler
}

func NewHandler(service *usecase.Service, db Pinger, log *zap.Logger) *Handler {
	return &Handler{
		Ride:         NewRideHandler(service.Ride, log),
		Booking:      NewBookingHandler(service.Booking, log),
		Geo:          NewGeoHandler(service.Proximity, service.Coordinates, log),
		Admin:        NewAdminHandler(service.Admin, log),
		Notification: NewNotificationHandler(service.Notification, log),
		Health:       NewHealthHandler(db, log),
	}
}
