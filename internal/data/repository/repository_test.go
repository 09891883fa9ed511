package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"ride-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTransactor_CommitsOnSuccess(t *testing.T) {
	mock := newMockPool(t)
	tx := NewTransactor(mock, zap.NewNop())
	rideID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM rides")).
		WithArgs(rideID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	err := tx.WithinTx(context.Background(), func(repo *Repository) error {
		return repo.Ride.Delete(context.Background(), rideID)
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	mock := newMockPool(t)
	tx := NewTransactor(mock, zap.NewNop())
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := tx.WithinTx(context.Background(), func(repo *Repository) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_TransitionStatusIsCompareAndSet(t *testing.T) {
	mock := newMockPool(t)
	repo := NewBookingRepository(mock, zap.NewNop())
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND status = $2")).
		WithArgs(id, entity.BookingStatusPending, entity.BookingStatusCancelled).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	changed, err := repo.TransitionStatus(context.Background(), id, entity.BookingStatusPending, entity.BookingStatusCancelled)
	require.NoError(t, err)
	assert.False(t, changed)
}
