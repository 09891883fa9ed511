package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ride-booking/internal/data/entity"
	"ride-booking/internal/geo"
	"ride-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestNominatim(t *testing.T, handler http.HandlerFunc) *Nominatim {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewNominatim(utils.GeocoderConfig{
		URL:       srv.URL,
		UserAgent: "RideBookingTest/1.0",
		Timeout:   2 * time.Second,
	}, zap.NewNop())
}

func TestNominatimGeocode(t *testing.T) {
	n := newTestNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Tverskaya 1, Moscow", r.URL.Query().Get("q"))
		assert.Equal(t, "RideBookingTest/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte(`[{"lat":"55.7575","lon":"37.6136","display_name":"Tverskaya 1"}]`))
	})

	p, err := n.Geocode(context.Background(), "Tverskaya 1, Moscow")
	require.NoError(t, err)
	assert.InDelta(t, 55.7575, p.Lat, 1e-9)
	assert.InDelta(t, 37.6136, p.Lng, 1e-9)
}

func TestNominatimGeocodeNoMatch(t *testing.T) {
	n := newTestNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := n.Geocode(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, entity.ErrCoordinatesNotFound)
}

func TestNominatimReverse(t *testing.T) {
	n := newTestNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "55.7558", r.URL.Query().Get("lat"))
		assert.Equal(t, "37.6173", r.URL.Query().Get("lon"))
		w.Write([]byte(`{"display_name":"Red Square, Moscow"}`))
	})

	address, err := n.Reverse(context.Background(), geo.Point{Lat: 55.7558, Lng: 37.6173})
	require.NoError(t, err)
	assert.Equal(t, "Red Square, Moscow", address)
}

func TestNominatimReverseUnableToGeocode(t *testing.T) {
	n := newTestNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"Unable to geocode"}`))
	})

	_, err := n.Reverse(context.Background(), geo.Point{Lat: 0, Lng: -150})
	assert.ErrorIs(t, err, entity.ErrCoordinatesNotFound)
}

func TestNominatimBreakerOpensAfterFailures(t *testing.T) {
	calls := 0
	n := newTestNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 5; i++ {
		_, err := n.Geocode(context.Background(), "Moscow")
		require.Error(t, err)
	}

	_, err := n.Geocode(context.Background(), "Moscow")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker is open")
	assert.Equal(t, 5, calls)
}

func TestNominatimNotFoundKeepsBreakerClosed(t *testing.T) {
	calls := 0
	n := newTestNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[]`))
	})

	for i := 0; i < 7; i++ {
		_, err := n.Geocode(context.Background(), "Atlantis")
		assert.ErrorIs(t, err, entity.ErrCoordinatesNotFound)
	}
	assert.Equal(t, 7, calls)
}
