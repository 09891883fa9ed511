package wire

import (
	"net/http"

	"ride-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, auth, create func(http.Handler) http.Handler) {
	r.Route("/bookings", func(r chi.Router) {
		r.Use(auth)

		r.With(create).Post("/", bookingHandler.CreateBooking)
		r.Get("/", bookingHandler.ListMyBookings)
		r.Get("/{id}", bookingHandler.GetBooking)
		r.Put("/{id}", bookingHandler.UpdateBooking)
	})
}

func wireNotification(r chi.Router, notificationHandler *adaptor.NotificationHandler, auth func(http.Handler) http.Handler) {
	r.Route("/notifications", func(r chi.Router) {
		r.Use(auth)

		r.Get("/", notificationHandler.List)
		r.Put("/{id}/read", notificationHandler.MarkRead)
	})
}
