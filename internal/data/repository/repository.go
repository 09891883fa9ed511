package repository

import (
	"context"
	"fmt"

	"ride-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Ride         RideRepository
	Inventory    InventoryRepository
	Coordinates  CoordinateRepository
	Booking      BookingRepository
	Profile      ProfileRepository
	Outbox       OutboxRepository
	Notification NotificationRepository
}

func NewRepository(db database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		Ride:         NewRideRepository(db, log),
		Inventory:    NewInventoryRepository(db, log),
		Coordinates:  NewCoordinateRepository(db, log),
		Booking:      NewBookingRepository(db, log),
		Profile:      NewProfileRepository(db, log),
		Outbox:       NewOutboxRepository(db, log),
		Notification: NewNotificationRepository(db, log),
	}
}

// Transactor runs fn against repositories bound to a single transaction.
// fn's error rolls the transaction back; nil commits.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repo *Repository) error) error
}

type pgxTransactor struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTransactor(db database.PgxIface, log *zap.Logger) Transactor {
	return &pgxTransactor{
		db:  db,
		log: log,
	}
}

func (t *pgxTransactor) WithinTx(ctx context.Context, fn func(repo *Repository) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		t.log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		// no-op after a successful commit
		_ = tx.Rollback(ctx)
	}()

	if err := fn(NewRepository(tx, t.log)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		t.log.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}
