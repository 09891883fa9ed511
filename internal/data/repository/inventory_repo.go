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

// InventoryRepository is the seat ledger of a ride. Every method is one
// atomic statement against the ride row.
type InventoryRepository interface {
	Reserve(ctx context.Context, rideID uuid.UUID, seats int) (int, error)
	Release(ctx context.Context, rideID uuid.UUID, seats int) (int, error)
	Resize(ctx context.Context, rideID uuid.UUID, newTotal int) (total, available int, err error)
}

type inventoryRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewInventoryRepository(db database.Querier, log *zap.Logger) InventoryRepository {
	return &inventoryRepository{
		db:  db,
		log: log.With(zap.String("repository", "inventory")),
	}
}

// Reserve takes seats from an active ride and returns the remaining availability.
func (r *inventoryRepository) Reserve(ctx context.Context, rideID uuid.UUID, seats int) (int, error) {
	if seats < 1 {
		return 0, entity.ErrInvalidSeatCount
	}

	query := `
		UPDATE rides
		SET seats_available = seats_available - $2, updated_at = NOW()
		WHERE id = $1 AND status = 'active' AND seats_available >= $2
		RETURNING seats_available
	`

	var available int
	err := r.db.QueryRow(ctx, query, rideID, seats).Scan(&available)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, r.explainRejection(ctx, rideID)
	}
	if err != nil {
		r.log.Error("Failed to reserve seats",
			zap.Error(err),
			zap.String("ride_id", rideID.String()),
			zap.Int("seats", seats),
		)
		return 0, fmt.Errorf("reserve %d seats on ride %s: %w", seats, rideID, err)
	}

	return available, nil
}

// explainRejection tells a missing or closed ride apart from exhausted inventory.
func (r *inventoryRepository) explainRejection(ctx context.Context, rideID uuid.UUID) error {
	var status entity.RideStatus
	err := r.db.QueryRow(ctx, `SELECT status FROM rides WHERE id = $1`, rideID).Scan(&status)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return entity.ErrRideNotFound
	case err != nil:
		r.log.Error("Failed to read ride status", zap.Error(err), zap.String("ride_id", rideID.String()))
		return fmt.Errorf("read status of ride %s: %w", rideID, err)
	case status != entity.RideStatusActive:
		return entity.ErrRideNotBookable
	default:
		return entity.ErrInsufficientSeats
	}
}

// Release returns seats, never exceeding seats_total.
func (r *inventoryRepository) Release(ctx context.Context, rideID uuid.UUID, seats int) (int, error) {
	if seats < 1 {
		return 0, entity.ErrInvalidSeatCount
	}

	query := `
		UPDATE rides
		SET seats_available = LEAST(seats_total, seats_available + $2), updated_at = NOW()
		WHERE id = $1
		RETURNING seats_available
	`

	var available int
	err := r.db.QueryRow(ctx, query, rideID, seats).Scan(&available)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, entity.ErrRideNotFound
	}
	if err != nil {
		r.log.Error("Failed to release seats",
			zap.Error(err),
			zap.String("ride_id", rideID.String()),
			zap.Int("seats", seats),
		)
		return 0, fmt.Errorf("release %d seats on ride %s: %w", seats, rideID, err)
	}

	return available, nil
}

// Resize sets a new total while keeping the booked count.
func (r *inventoryRepository) Resize(ctx context.Context, rideID uuid.UUID, newTotal int) (int, int, error) {
	if newTotal < 1 {
		return 0, 0, entity.ErrInvalidSeatCount
	}

	query := `
		UPDATE rides
		SET seats_available = GREATEST(0, $2 - (seats_total - seats_available)),
		    seats_total = $2,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING seats_total, seats_available
	`

	var total, available int
	err := r.db.QueryRow(ctx, query, rideID, newTotal).Scan(&total, &available)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, entity.ErrRideNotFound
	}
	if err != nil {
		r.log.Error("Failed to resize ride inventory",
			zap.Error(err),
			zap.String("ride_id", rideID.String()),
			zap.Int("new_total", newTotal),
		)
		return 0, 0, fmt.Errorf("resize ride %s to %d seats: %w", rideID, newTotal, err)
	}

	return total, available, nil
}
