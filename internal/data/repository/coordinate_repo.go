package repository

import (
	"context"
	"errors"
	"fmt"

	"ride-booking/internal/data/entity"
	"ride-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CoordinateRepository interface {
	Upsert(ctx context.Context, coords *entity.RideCoordinates) error
	FindByRideID(ctx context.Context, rideID uuid.UUID) (*entity.RideCoordinates, error)
}

type coordinateRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewCoordinateRepository(db database.Querier, log *zap.Logger) CoordinateRepository {
	return &coordinateRepository{
		db:  db,
		log: log.With(zap.String("repository", "coordinates")),
	}
}

// Upsert replaces only the pairs that are set; a nil pair keeps the stored value.
func (r *coordinateRepository) Upsert(ctx context.Context, coords *entity.RideCoordinates) error {
	query := `
		INSERT INTO ride_coordinates (ride_id, from_lat, from_lng, to_lat, to_lng, from_geohash, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (ride_id) DO UPDATE SET
			from_lat     = COALESCE(EXCLUDED.from_lat, ride_coordinates.from_lat),
			from_lng     = COALESCE(EXCLUDED.from_lng, ride_coordinates.from_lng),
			to_lat       = COALESCE(EXCLUDED.to_lat, ride_coordinates.to_lat),
			to_lng       = COALESCE(EXCLUDED.to_lng, ride_coordinates.to_lng),
			from_geohash = COALESCE(EXCLUDED.from_geohash, ride_coordinates.from_geohash),
			updated_at   = NOW()
	`

	_, err := r.db.Exec(ctx, query,
		coords.RideID,
		coords.FromLat,
		coords.FromLng,
		coords.ToLat,
		coords.ToLng,
		coords.FromGeohash,
	)
	if err != nil {
		r.log.Error("Failed to upsert ride coordinates",
			zap.Error(err),
			zap.String("ride_id", coords.RideID.String()),
		)
		return fmt.Errorf("upsert coordinates of ride %s: %w", coords.RideID, err)
	}

	return nil
}

func (r *coordinateRepository) FindByRideID(ctx context.Context, rideID uuid.UUID) (*entity.RideCoordinates, error) {
	query := `
		SELECT ride_id, from_lat, from_lng, to_lat, to_lng, from_geohash, updated_at
		FROM ride_coordinates
		WHERE ride_id = $1
	`

	var coords entity.RideCoordinates
	err := r.db.QueryRow(ctx, query, rideID).Scan(
		&coords.RideID,
		&coords.FromLat,
		&coords.FromLng,
		&coords.ToLat,
		&coords.ToLng,
		&coords.FromGeohash,
		&coords.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find ride coordinates",
			zap.Error(err),
			zap.String("ride_id", rideID.String()),
		)
		return nil, fmt.Errorf("find coordinates of ride %s: %w", rideID, err)
	}

	return &coords, nil
}
