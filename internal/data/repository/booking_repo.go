package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ride-booking/internal/data/entity"
	"ride-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindActiveByRide(ctx context.Context, rideID uuid.UUID) ([]*entity.Booking, error)
	HasActiveBooking(ctx context.Context, rideID, passengerID uuid.UUID) (bool, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) (bool, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error
	List(ctx context.Context, filter entity.BookingFilter) ([]*entity.BookingWithRide, int64, error)
	ListByRide(ctx context.Context, rideID uuid.UUID) ([]*entity.BookingWithPassenger, error)
}

const bookingColumns = `b.id, b.ride_id, b.passenger_id, b.seats_booked, b.total_price,
	b.status, b.payment_status, b.created_at, b.updated_at`

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func bookingDest(b *entity.Booking) []any {
	return []any{
		&b.ID,
		&b.RideID,
		&b.PassengerID,
		&b.SeatsBooked,
		&b.TotalPrice,
		&b.Status,
		&b.PaymentStatus,
		&b.CreatedAt,
		&b.UpdatedAt,
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, ride_id, passenger_id, seats_booked, total_price, status, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.RideID,
		booking.PassengerID,
		booking.SeatsBooked,
		booking.TotalPrice,
		booking.Status,
		booking.PaymentStatus,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	// uq_bookings_active_passenger catches creates that raced past HasActiveBooking
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return entity.ErrDuplicateBooking
	}
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("ride_id", booking.RideID.String()),
			zap.String("passenger_id", booking.PassengerID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1`

	var booking entity.Booking
	err := r.db.QueryRow(ctx, query, id).Scan(bookingDest(&booking)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id, err)
	}

	return &booking, nil
}

// FindActiveByRide locks and returns the pending and confirmed bookings of a ride.
func (r *bookingRepository) FindActiveByRide(ctx context.Context, rideID uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		WHERE b.ride_id = $1 AND b.status IN ('pending', 'confirmed')
		ORDER BY b.created_at
		FOR UPDATE
	`

	rows, err := r.db.Query(ctx, query, rideID)
	if err != nil {
		r.log.Error("Failed to find active bookings by ride",
			zap.Error(err),
			zap.String("ride_id", rideID.String()),
		)
		return nil, fmt.Errorf("find active bookings of ride %s: %w", rideID, err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		var booking entity.Booking
		if err := rows.Scan(bookingDest(&booking)...); err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, &booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) HasActiveBooking(ctx context.Context, rideID, passengerID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE ride_id = $1 AND passenger_id = $2 AND status IN ('pending', 'confirmed')
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, rideID, passengerID).Scan(&exists); err != nil {
		r.log.Error("Failed to check active booking",
			zap.Error(err),
			zap.String("ride_id", rideID.String()),
			zap.String("passenger_id", passengerID.String()),
		)
		return false, fmt.Errorf("check active booking on ride %s: %w", rideID, err)
	}

	return exists, nil
}

// TransitionStatus moves a booking from one status to another only if it is
// still in the expected status. It reports whether the row changed.
func (r *bookingRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) (bool, error) {
	query := `UPDATE bookings SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`

	result, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
		return false, fmt.Errorf("update booking %s status %s -> %s: %w", id, from, to, err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *bookingRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error {
	query := `UPDATE bookings SET payment_status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update payment status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("payment_status", string(status)),
		)
		return fmt.Errorf("update booking %s payment status: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrBookingNotFound
	}

	return nil
}

func (r *bookingRepository) List(ctx context.Context, filter entity.BookingFilter) ([]*entity.BookingWithRide, int64, error) {
	var where strings.Builder
	where.WriteString(` WHERE TRUE`)

	args := []any{}
	argCount := 1
	add := func(cond string, value any) {
		where.WriteString(fmt.Sprintf(" AND "+cond, argCount))
		args = append(args, value)
		argCount++
	}

	if filter.PassengerID != nil {
		add("b.passenger_id = $%d", *filter.PassengerID)
	}
	if filter.RideID != nil {
		add("b.ride_id = $%d", *filter.RideID)
	}
	if filter.Status != nil {
		add("b.status = $%d", *filter.Status)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings b`+where.String(), args...).Scan(&total); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	query := `
		SELECT ` + bookingColumns + `, ` + rideColumns + `,
		       p.full_name, p.avatar_url, COALESCE(p.rating, 5.0), COALESCE(p.trips_count, 0), COALESCE(p.is_verified, FALSE)
		FROM bookings b
		JOIN rides r ON r.id = b.ride_id
		LEFT JOIN profiles p ON p.user_id = r.driver_id` + where.String() +
		fmt.Sprintf(` ORDER BY b.created_at DESC LIMIT $%d OFFSET $%d`, argCount, argCount+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list bookings",
			zap.Error(err),
			zap.Int("limit", filter.Limit),
			zap.Int("offset", filter.Offset),
		)
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.BookingWithRide
	for rows.Next() {
		var bw entity.BookingWithRide
		dest := append(bookingDest(&bw.Booking), rideDest(&bw.Ride)...)
		dest = append(dest,
			&bw.Driver.FullName,
			&bw.Driver.AvatarURL,
			&bw.Driver.Rating,
			&bw.Driver.TripsCount,
			&bw.Driver.IsVerified,
		)
		if err := rows.Scan(dest...); err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, 0, fmt.Errorf("scan booking row: %w", err)
		}
		bw.Driver.ID = bw.Ride.DriverID
		bookings = append(bookings, &bw)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, total, nil
}

func (r *bookingRepository) ListByRide(ctx context.Context, rideID uuid.UUID) ([]*entity.BookingWithPassenger, error) {
	query := `
		SELECT ` + bookingColumns + `,
		       p.full_name, p.avatar_url, COALESCE(p.rating, 5.0), COALESCE(p.trips_count, 0), COALESCE(p.is_verified, FALSE)
		FROM bookings b
		LEFT JOIN profiles p ON p.user_id = b.passenger_id
		WHERE b.ride_id = $1
		ORDER BY b.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, rideID)
	if err != nil {
		r.log.Error("Failed to list ride bookings",
			zap.Error(err),
			zap.String("ride_id", rideID.String()),
		)
		return nil, fmt.Errorf("list bookings of ride %s: %w", rideID, err)
	}
	defer rows.Close()

	var bookings []*entity.BookingWithPassenger
	for rows.Next() {
		var bp entity.BookingWithPassenger
		dest := append(bookingDest(&bp.Booking),
			&bp.Passenger.FullName,
			&bp.Passenger.AvatarURL,
			&bp.Passenger.Rating,
			&bp.Passenger.TripsCount,
			&bp.Passenger.IsVerified,
		)
		if err := rows.Scan(dest...); err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bp.Passenger.ID = bp.PassengerID
		bookings = append(bookings, &bp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}
