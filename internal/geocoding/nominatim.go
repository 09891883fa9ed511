package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ride-booking/internal/data/entity"
	"ride-booking/internal/geo"
	"ride-booking/pkg/utils"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Nominatim talks to an OpenStreetMap Nominatim compatible endpoint.
type Nominatim struct {
	baseURL   string
	userAgent string
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker
	log       *zap.Logger
}

func NewNominatim(config utils.GeocoderConfig, log *zap.Logger) *Nominatim {
	log = log.With(zap.String("client", "nominatim"))

	settings := gobreaker.Settings{
		Name:        "geocoder",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, entity.ErrCoordinatesNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &Nominatim{
		baseURL:   config.URL,
		userAgent: config.UserAgent,
		client:    &http.Client{Timeout: config.Timeout},
		breaker:   gobreaker.NewCircuitBreaker(settings),
		log:       log,
	}
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type reverseResult struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

func (n *Nominatim) Geocode(ctx context.Context, address string) (geo.Point, error) {
	query := url.Values{}
	query.Set("q", address)
	query.Set("format", "json")
	query.Set("limit", "1")

	var results []searchResult
	if err := n.call(ctx, "/search", query, &results); err != nil {
		return geo.Point{}, err
	}
	if len(results) == 0 {
		return geo.Point{}, entity.ErrCoordinatesNotFound
	}

	lat, errLat := strconv.ParseFloat(results[0].Lat, 64)
	lng, errLng := strconv.ParseFloat(results[0].Lon, 64)
	if errLat != nil || errLng != nil {
		return geo.Point{}, fmt.Errorf("geocode %q: malformed coordinates %q,%q", address, results[0].Lat, results[0].Lon)
	}

	return geo.Point{Lat: lat, Lng: lng}, nil
}

func (n *Nominatim) Reverse(ctx context.Context, point geo.Point) (string, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(point.Lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(point.Lng, 'f', -1, 64))
	query.Set("format", "json")

	var result reverseResult
	if err := n.call(ctx, "/reverse", query, &result); err != nil {
		return "", err
	}
	if result.Error != "" || result.DisplayName == "" {
		return "", entity.ErrCoordinatesNotFound
	}

	return result.DisplayName, nil
}

// call performs one GET through the circuit breaker and decodes the JSON body into out.
func (n *Nominatim) call(ctx context.Context, path string, query url.Values, out any) error {
	_, err := n.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+path+"?"+query.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", n.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := n.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, entity.ErrCoordinatesNotFound
		case resp.StatusCode != http.StatusOK:
			return nil, fmt.Errorf("geocoder responded %d", resp.StatusCode)
		}

		return nil, json.NewDecoder(resp.Body).Decode(out)
	})
	if err != nil && !errors.Is(err, entity.ErrCoordinatesNotFound) {
		n.log.Warn("Geocoder request failed", zap.Error(err), zap.String("path", path))
		return fmt.Errorf("geocoder %s: %w", path, err)
	}

	return err
}
