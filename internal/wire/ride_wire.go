package wire

import (
	"net/http"

	"ride-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireRide(
	r chi.Router,
	rideHandler *adaptor.RideHandler,
	bookingHandler *adaptor.BookingHandler,
	geoHandler *adaptor.GeoHandler,
	auth func(http.Handler) http.Handler,
	create func(http.Handler) http.Handler,
) {
	r.Route("/rides", func(r chi.Router) {
		// public
		r.Get("/", rideHandler.SearchRides)
		r.Get("/nearby", geoHandler.Nearby)
		r.Get("/{id}", rideHandler.GetRide)

		r.Group(func(r chi.Router) {
			r.Use(auth)

			r.With(create).Post("/", rideHandler.CreateRide)
			r.Get("/my", rideHandler.MyRides)
			r.Put("/{id}", rideHandler.UpdateRide)
			r.Delete("/{id}", rideHandler.DeleteRide)
			r.Put("/{id}/coordinates", geoHandler.SetCoordinates)

			// driver, participants and admins
			r.Get("/{id}/bookings", bookingHandler.ListRideBookings)
		})
	})
}

func wireGeocoding(r chi.Router, geoHandler *adaptor.GeoHandler, auth func(http.Handler) http.Handler) {
	r.Route("/geocoding", func(r chi.Router) {
		r.Use(auth)

		r.Get("/geocode", geoHandler.Geocode)
		r.Get("/reverse", geoHandler.Reverse)
	})
}
