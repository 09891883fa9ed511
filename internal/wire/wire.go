// internal/wire/wire.go
package wire

import (
	"net/http"

	"ride-booking/internal/adaptor"
	"ride-booking/internal/usecase"
	"ride-booking/pkg/middleware"
	"ride-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the assembled router.
type App struct {
	Router *chi.Mux
}

type limits struct {
	api    func(http.Handler) http.Handler
	create func(http.Handler) http.Handler
}

// Wiring builds handlers from the services and mounts every route. A nil
// limiter disables rate limiting.
func Wiring(service *usecase.Service, db adaptor.Pinger, limiter *middleware.RateLimiter, config utils.RateLimitConfig, logger *zap.Logger) *App {
	handler := adaptor.NewHandler(service, db, logger)

	if !config.Enabled {
		limiter = nil
	}
	l := limits{
		api: limiter.Limit(middleware.RateRule{
			Name:         "api",
			Limit:        config.Max,
			Window:       config.Window,
			SkipLoopback: config.SkipLoopback,
		}),
		create: limiter.Limit(middleware.RateRule{
			Name:         "create",
			Limit:        config.CreateMax,
			Window:       config.CreateWindow,
			Message:      "Too many rides or bookings created, please try again later",
			SkipLoopback: config.SkipLoopback,
		}),
	}

	return &App{
		Router: setupRouter(handler, service.Identity, l, logger),
	}
}

func setupRouter(handler *adaptor.Handler, identity middleware.IdentityResolver, l limits, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS())

	r.Get("/health", handler.Health.Health)
	r.Handle("/metrics", promhttp.Handler())

	auth := middleware.Auth(identity, logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(l.api)

		wireRide(r, handler.Ride, handler.Booking, handler.Geo, auth, l.create)
		wireBooking(r, handler.Booking, auth, l.create)
		wireGeocoding(r, handler.Geo, auth)
		wireNotification(r, handler.Notification, auth)
		wireAdmin(r, handler.Admin, auth, logger)
	})

	return r
}
