package usecase

import (
	"context"
	"errors"
	"strings"

	"ride-booking/internal/access"
	"ride-booking/internal/data/entity"
	"ride-booking/internal/data/repository"
	"ride-booking/internal/dto/request"
	"ride-booking/internal/dto/response"
	"ride-booking/internal/geo"
	"ride-booking/internal/geocoding"

	"go.uber.org/zap"
)

// ErrGeocoderUnavailable is returned when no geocoder is configured.
var ErrGeocoderUnavailable = errors.New("geocoder is not configured")

type CoordinateService interface {
	SetCoordinates(ctx context.Context, caller access.Caller, rideID string, req *request.CoordinatesRequest) (*response.CoordinatesResponse, error)
	Geocode(ctx context.Context, req *request.GeocodeRequest) (*response.GeocodeResponse, error)
	Reverse(ctx context.Context, req *request.ReverseGeocodeRequest) (*response.GeocodeResponse, error)
}

type coordinateService struct {
	repo     *repository.Repository
	geocoder geocoding.Resolver
	log      *zap.Logger
}

func NewCoordinateService(repo *repository.Repository, geocoder geocoding.Resolver, log *zap.Logger) CoordinateService {
	return &coordinateService{
		repo:     repo,
		geocoder: geocoder,
		log:      log.With(zap.String("service", "coordinates")),
	}
}

// SetCoordinates lets the driver pin either end of the ride. A pair left out
// keeps its stored value.
func (s *coordinateService) SetCoordinates(ctx context.Context, caller access.Caller, rideID string, req *request.CoordinatesRequest) (*response.CoordinatesResponse, error) {
	if !caller.Authenticated() {
		return nil, entity.ErrUnauthenticated
	}

	id, err := parseID("ride", rideID)
	if err != nil {
		return nil, err
	}

	from, err := pointFrom(req.FromLat, req.FromLng)
	if err != nil {
		return nil, err
	}
	to, err := pointFrom(req.ToLat, req.ToLng)
	if err != nil {
		return nil, err
	}
	if from == nil && to == nil {
		return nil, entity.ErrInvalidCoordinates
	}

	ride, err := s.repo.Ride.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ride == nil {
		return nil, entity.ErrRideNotFound
	}
	if err := access.RequireOwner(caller, ride); err != nil {
		return nil, err
	}

	coords := &entity.RideCoordinates{RideID: id}
	if from != nil {
		coords.FromLat, coords.FromLng = &from.Lat, &from.Lng
		hash := from.Geohash()
		coords.FromGeohash = &hash
	}
	if to != nil {
		coords.ToLat, coords.ToLng = &to.Lat, &to.Lng
	}

	if err := s.repo.Coordinates.Upsert(ctx, coords); err != nil {
		return nil, err
	}

	stored, err := s.repo.Coordinates.FindByRideID(ctx, id)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, entity.ErrCoordinatesNotFound
	}

	s.log.Info("Ride coordinates set",
		zap.String("ride_id", id.String()),
		zap.Bool("origin", from != nil),
		zap.Bool("destination", to != nil),
	)

	return response.CoordinatesToResponse(stored), nil
}

// pointFrom requires lat and lng to come together.
func pointFrom(lat, lng *float64) (*geo.Point, error) {
	if lat == nil && lng == nil {
		return nil, nil
	}
	if lat == nil || lng == nil {
		return nil, entity.ErrInvalidCoordinates
	}
	p := geo.Point{Lat: *lat, Lng: *lng}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *coordinateService) Geocode(ctx context.Context, req *request.GeocodeRequest) (*response.GeocodeResponse, error) {
	if s.geocoder == nil {
		return nil, ErrGeocoderUnavailable
	}

	address := strings.TrimSpace(req.Address)
	p, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}

	return &response.GeocodeResponse{Address: address, Point: p}, nil
}

func (s *coordinateService) Reverse(ctx context.Context, req *request.ReverseGeocodeRequest) (*response.GeocodeResponse, error) {
	if s.geocoder == nil {
		return nil, ErrGeocoderUnavailable
	}

	p := geo.Point{Lat: req.Lat, Lng: req.Lng}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	address, err := s.geocoder.Reverse(ctx, p)
	if err != nil {
		return nil, err
	}

	return &response.GeocodeResponse{Address: address, Point: p}, nil
}
