package wire

import (
	"net/http"

	"ride-booking/internal/adaptor"
	"ride-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAdmin(r chi.Router, adminHandler *adaptor.AdminHandler, auth func(http.Handler) http.Handler, log *zap.Logger) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.Admin(log))

		r.Get("/users", adminHandler.ListUsers)
		r.Put("/users/{id}/ban", adminHandler.SetBanned)
		r.Get("/bookings", adminHandler.ListBookings)
	})
}
