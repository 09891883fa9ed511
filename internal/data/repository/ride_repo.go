package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ride-booking/internal/data/entity"
	"ride-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RideRepository interface {
	Create(ctx context.Context, ride *entity.Ride) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Ride, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Ride, error)
	FindWithDriver(ctx context.Context, id uuid.UUID) (*entity.RideWithDriver, error)
	Search(ctx context.Context, filter entity.RideSearchFilter) ([]*entity.RideWithDriver, int64, error)
	FindByDriver(ctx context.Context, driverID uuid.UUID, status *entity.RideStatus, limit, offset int) ([]*entity.Ride, int64, error)
	FindNearbyCandidates(ctx context.Context, limit int) ([]*entity.RideWithDriver, error)
	Update(ctx context.Context, ride *entity.Ride) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.RideStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

const rideColumns = `r.id, r.driver_id, r.from_city, r.from_address, r.to_city, r.to_address,
	r.departure_at, r.estimated_duration, r.price, r.seats_total, r.seats_available, r.status,
	r.allow_smoking, r.allow_pets, r.allow_music, r.notes, r.created_at, r.updated_at`

const rideWithDriverColumns = rideColumns + `,
	p.full_name, p.avatar_url, COALESCE(p.rating, 5.0), COALESCE(p.trips_count, 0), COALESCE(p.is_verified, FALSE),
	c.ride_id IS NOT NULL, c.from_lat, c.from_lng, c.to_lat, c.to_lng, c.from_geohash, COALESCE(c.updated_at, r.updated_at)`

const rideWithDriverFrom = `
	FROM rides r
	LEFT JOIN profiles p ON p.user_id = r.driver_id
	LEFT JOIN ride_coordinates c ON c.ride_id = r.id`

type rideRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewRideRepository(db database.Querier, log *zap.Logger) RideRepository {
	return &rideRepository{
		db:  db,
		log: log.With(zap.String("repository", "ride")),
	}
}

func scanRide(row pgx.Row, ride *entity.Ride) error {
	return row.Scan(rideDest(ride)...)
}

func rideDest(ride *entity.Ride) []any {
	return []any{
		&ride.ID,
		&ride.DriverID,
		&ride.FromCity,
		&ride.FromAddress,
		&ride.ToCity,
		&ride.ToAddress,
		&ride.DepartureAt,
		&ride.EstimatedDuration,
		&ride.Price,
		&ride.SeatsTotal,
		&ride.SeatsAvailable,
		&ride.Status,
		&ride.AllowSmoking,
		&ride.AllowPets,
		&ride.AllowMusic,
		&ride.Notes,
		&ride.CreatedAt,
		&ride.UpdatedAt,
	}
}

func scanRideWithDriver(row pgx.Row) (*entity.RideWithDriver, error) {
	var (
		rw        entity.RideWithDriver
		hasCoords bool
		coords    entity.RideCoordinates
	)

	dest := rideDest(&rw.Ride)
	dest = append(dest,
		&rw.Driver.FullName,
		&rw.Driver.AvatarURL,
		&rw.Driver.Rating,
		&rw.Driver.TripsCount,
		&rw.Driver.IsVerified,
		&hasCoords,
		&coords.FromLat,
		&coords.FromLng,
		&coords.ToLat,
		&coords.ToLng,
		&coords.FromGeohash,
		&coords.UpdatedAt,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	rw.Driver.ID = rw.DriverID
	if hasCoords {
		coords.RideID = rw.ID
		rw.Coordinates = &coords
	}
	return &rw, nil
}

func (r *rideRepository) Create(ctx context.Context, ride *entity.Ride) error {
	query := `
		INSERT INTO rides (id, driver_id, from_city, from_address, to_city, to_address,
		                   departure_at, estimated_duration, price, seats_total, seats_available, status,
		                   allow_smoking, allow_pets, allow_music, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := r.db.Exec(ctx, query,
		ride.ID,
		ride.DriverID,
		ride.FromCity,
		ride.FromAddress,
		ride.ToCity,
		ride.ToAddress,
		ride.DepartureAt,
		ride.EstimatedDuration,
		ride.Price,
		ride.SeatsTotal,
		ride.SeatsAvailable,
		ride.Status,
		ride.AllowSmoking,
		ride.AllowPets,
		ride.AllowMusic,
		ride.Notes,
		ride.CreatedAt,
		ride.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create ride",
			zap.Error(err),
			zap.String("ride_id", ride.ID.String()),
			zap.String("driver_id", ride.DriverID.String()),
		)
		return fmt.Errorf("create ride %s: %w", ride.ID, err)
	}

	return nil
}

func (r *rideRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Ride, error) {
	return r.findOne(ctx, `SELECT `+rideColumns+` FROM rides r WHERE r.id = $1`, id)
}

// FindByIDForUpdate locks the ride row until the surrounding transaction ends.
func (r *rideRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Ride, error) {
	return r.findOne(ctx, `SELECT `+rideColumns+` FROM rides r WHERE r.id = $1 FOR UPDATE`, id)
}

func (r *rideRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.Ride, error) {
	var ride entity.Ride
	err := scanRide(r.db.QueryRow(ctx, query, id), &ride)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find ride by ID",
			zap.Error(err),
			zap.String("ride_id", id.String()),
		)
		return nil, fmt.Errorf("find ride by ID %s: %w", id, err)
	}

	return &ride, nil
}

func (r *rideRepository) FindWithDriver(ctx context.Context, id uuid.UUID) (*entity.RideWithDriver, error) {
	query := `SELECT ` + rideWithDriverColumns + rideWithDriverFrom + ` WHERE r.id = $1`

	ride, err := scanRideWithDriver(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find ride with driver",
			zap.Error(err),
			zap.String("ride_id", id.String()),
		)
		return nil, fmt.Errorf("find ride with driver %s: %w", id, err)
	}

	return ride, nil
}

func (r *rideRepository) Search(ctx context.Context, filter entity.RideSearchFilter) ([]*entity.RideWithDriver, int64, error) {
	var where strings.Builder
	where.WriteString(` WHERE r.status = 'active'`)

	args := []any{}
	argCount := 1
	add := func(cond string, value any) {
		where.WriteString(fmt.Sprintf(" AND "+cond, argCount))
		args = append(args, value)
		argCount++
	}

	if filter.From != "" {
		add("r.from_city ILIKE $%d", "%"+filter.From+"%")
	}
	if filter.To != "" {
		add("r.to_city ILIKE $%d", "%"+filter.To+"%")
	}
	if filter.DateFrom != nil {
		add("r.departure_at >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		add("r.departure_at < $%d", *filter.DateTo)
	}
	if filter.Passengers > 0 {
		add("r.seats_available >= $%d", filter.Passengers)
	}
	if filter.MinPrice != nil {
		add("r.price >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		add("r.price <= $%d", *filter.MaxPrice)
	}
	if filter.AllowSmoking != nil {
		add("r.allow_smoking = $%d", *filter.AllowSmoking)
	}
	if filter.AllowPets != nil {
		add("r.allow_pets = $%d", *filter.AllowPets)
	}
	if filter.AllowMusic != nil {
		add("r.allow_music = $%d", *filter.AllowMusic)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM rides r` + where.String()
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count rides", zap.Error(err))
		return nil, 0, fmt.Errorf("count rides: %w", err)
	}

	query := `SELECT ` + rideWithDriverColumns + rideWithDriverFrom + where.String() +
		` ORDER BY ` + rideOrderBy(filter.SortBy) +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, argCount, argCount+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to search rides",
			zap.Error(err),
			zap.String("from", filter.From),
			zap.String("to", filter.To),
		)
		return nil, 0, fmt.Errorf("search rides: %w", err)
	}
	defer rows.Close()

	rides, err := collectRidesWithDriver(rows)
	if err != nil {
		r.log.Error("Failed to scan ride row", zap.Error(err))
		return nil, 0, err
	}

	return rides, total, nil
}

func rideOrderBy(sortBy string) string {
	switch sortBy {
	case "price_asc":
		return "r.price ASC, r.departure_at ASC"
	case "price_desc":
		return "r.price DESC, r.departure_at ASC"
	case "recent":
		return "r.created_at DESC"
	default:
		return "r.departure_at ASC"
	}
}

func collectRidesWithDriver(rows pgx.Rows) ([]*entity.RideWithDriver, error) {
	var rides []*entity.RideWithDriver
	for rows.Next() {
		ride, err := scanRideWithDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ride row: %w", err)
		}
		rides = append(rides, ride)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ride rows: %w", err)
	}
	return rides, nil
}

func (r *rideRepository) FindByDriver(ctx context.Context, driverID uuid.UUID, status *entity.RideStatus, limit, offset int) ([]*entity.Ride, int64, error) {
	where := ` WHERE r.driver_id = $1`
	args := []any{driverID}
	if status != nil {
		where += ` AND r.status = $2`
		args = append(args, *status)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM rides r`+where, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count driver rides",
			zap.Error(err),
			zap.String("driver_id", driverID.String()),
		)
		return nil, 0, fmt.Errorf("count rides of driver %s: %w", driverID, err)
	}

	query := `SELECT ` + rideColumns + ` FROM rides r` + where +
		fmt.Sprintf(` ORDER BY r.departure_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find driver rides",
			zap.Error(err),
			zap.String("driver_id", driverID.String()),
		)
		return nil, 0, fmt.Errorf("find rides of driver %s: %w", driverID, err)
	}
	defer rows.Close()

	var rides []*entity.Ride
	for rows.Next() {
		var ride entity.Ride
		if err := scanRide(rows, &ride); err != nil {
			r.log.Error("Failed to scan ride row", zap.Error(err))
			return nil, 0, fmt.Errorf("scan ride row: %w", err)
		}
		rides = append(rides, &ride)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate ride rows: %w", err)
	}

	return rides, total, nil
}

// FindNearbyCandidates returns the soonest-departing active rides that carry any coordinate.
func (r *rideRepository) FindNearbyCandidates(ctx context.Context, limit int) ([]*entity.RideWithDriver, error) {
	query := `SELECT ` + rideWithDriverColumns + rideWithDriverFrom + `
		WHERE r.status = 'active'
		  AND (c.from_lat IS NOT NULL OR c.to_lat IS NOT NULL)
		ORDER BY r.departure_at ASC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.log.Error("Failed to find nearby candidates", zap.Error(err), zap.Int("limit", limit))
		return nil, fmt.Errorf("find nearby candidates: %w", err)
	}
	defer rows.Close()

	rides, err := collectRidesWithDriver(rows)
	if err != nil {
		r.log.Error("Failed to scan ride row", zap.Error(err))
		return nil, err
	}
	return rides, nil
}

// Update writes the descriptive fields. Seat counters are owned by InventoryRepository.
func (r *rideRepository) Update(ctx context.Context, ride *entity.Ride) error {
	query := `
		UPDATE rides
		SET from_city = $2, from_address = $3, to_city = $4, to_address = $5,
		    departure_at = $6, estimated_duration = $7, price = $8,
		    allow_smoking = $9, allow_pets = $10, allow_music = $11, notes = $12,
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		ride.ID,
		ride.FromCity,
		ride.FromAddress,
		ride.ToCity,
		ride.ToAddress,
		ride.DepartureAt,
		ride.EstimatedDuration,
		ride.Price,
		ride.AllowSmoking,
		ride.AllowPets,
		ride.AllowMusic,
		ride.Notes,
	)
	if err != nil {
		r.log.Error("Failed to update ride",
			zap.Error(err),
			zap.String("ride_id", ride.ID.String()),
		)
		return fmt.Errorf("update ride %s: %w", ride.ID, err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrRideNotFound
	}

	return nil
}

func (r *rideRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.RideStatus) error {
	query := `UPDATE rides SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update ride status",
			zap.Error(err),
			zap.String("ride_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update ride %s status to %s: %w", id, status, err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrRideNotFound
	}

	return nil
}

func (r *rideRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM rides WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete ride",
			zap.Error(err),
			zap.String("ride_id", id.String()),
		)
		return fmt.Errorf("delete ride %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrRideNotFound
	}

	r.log.Info("Ride deleted", zap.String("ride_id", id.String()))
	return nil
}
