package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ride_booking"

var (
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "bookings_created_total", Help: "Bookings created"})
	BookingRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "booking_rejections_total", Help: "Booking requests rejected by reason"},
		[]string{"reason"},
	)
	BookingTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "booking_transitions_total", Help: "Booking status transitions"},
		[]string{"from", "to"},
	)
	RidesCancelled = promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "rides_cancelled_total", Help: "Rides cancelled with outstanding bookings"})
	NearbySearchResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "nearby_search_results",
		Help:      "Rides returned by proximity search",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
	})

	OutboxDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "outbox_delivered_total", Help: "Outbox events delivered"},
		[]string{"event_type"},
	)
	OutboxFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "outbox_failures_total", Help: "Outbox delivery attempts that failed"},
		[]string{"event_type"},
	)

	GeocodeCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "geocode_cache_total", Help: "Geocode cache lookups by result"},
		[]string{"result"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
