package usecase

import (
	"context"
	"fmt"

	"ride-booking/internal/data/entity"
	"ride-booking/internal/data/repository"
	"ride-booking/internal/dto/request"
	"ride-booking/internal/dto/response"
	"ride-booking/internal/geo"
	"ride-booking/pkg/metrics"
	"ride-booking/pkg/utils"

	"go.uber.org/zap"
)

const maxNearbyRadiusKm = 1000

type ProximityService interface {
	Nearby(ctx context.Context, req *request.NearbyRidesRequest) (*response.NearbyRidesResponse, error)
}

type proximityService struct {
	rides          repository.RideRepository
	candidateLimit int
	defaultRadius  float64
	log            *zap.Logger
}

func NewProximityService(rides repository.RideRepository, config *utils.Config, log *zap.Logger) ProximityService {
	return &proximityService{
		rides:          rides,
		candidateLimit: config.Nearby.CandidateLimit,
		defaultRadius:  config.Nearby.DefaultRadius,
		log:            log.With(zap.String("service", "proximity")),
	}
}

// Nearby ranks the soonest departing active rides by distance from the
// requested point. Only the candidate window is scanned.
func (s *proximityService) Nearby(ctx context.Context, req *request.NearbyRidesRequest) (*response.NearbyRidesResponse, error) {
	center := geo.Point{Lat: req.Lat, Lng: req.Lng}
	if err := center.Validate(); err != nil {
		return nil, err
	}

	radius := req.Radius
	if radius == 0 {
		radius = s.defaultRadius
	}
	if radius <= 0 || radius > maxNearbyRadiusKm {
		return nil, fmt.Errorf("%w: radius must be in (0, %d] km", entity.ErrInvalidInput, maxNearbyRadiusKm)
	}

	candidates, err := s.rides.FindNearbyCandidates(ctx, s.candidateLimit)
	if err != nil {
		return nil, err
	}

	ranked := geo.WithinRadius(center, radius, candidates, geo.RideOrigin)

	rides := make([]response.RideResponse, 0, len(ranked))
	for _, r := range ranked {
		resp := response.RideWithDriverToResponse(r.Item)
		distance := r.Distance
		resp.Distance = &distance
		rides = append(rides, resp)
	}

	metrics.NearbySearchResults.Observe(float64(len(rides)))
	s.log.Debug("Nearby search",
		zap.Float64("lat", center.Lat),
		zap.Float64("lng", center.Lng),
		zap.Float64("radius_km", radius),
		zap.Int("candidates", len(candidates)),
		zap.Int("matches", len(rides)),
	)

	return &response.NearbyRidesResponse{
		Rides:  rides,
		Center: center,
		Radius: radius,
		Count:  len(rides),
	}, nil
}
