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

type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Profile, error)
	CountAll(ctx context.Context) (int64, error)
	SetBanned(ctx context.Context, userID uuid.UUID, banned bool) error
}

const profileColumns = `id, user_id, full_name, avatar_url, rating, trips_count,
	is_verified, is_admin, is_banned, created_at, updated_at`

type profileRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewProfileRepository(db database.Querier, log *zap.Logger) ProfileRepository {
	return &profileRepository{
		db:  db,
		log: log.With(zap.String("repository", "profile")),
	}
}

func profileDest(p *entity.Profile) []any {
	return []any{
		&p.ID,
		&p.UserID,
		&p.FullName,
		&p.AvatarURL,
		&p.Rating,
		&p.TripsCount,
		&p.IsVerified,
		&p.IsAdmin,
		&p.IsBanned,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
}

func (r *profileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`

	var profile entity.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(profileDest(&profile)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find profile by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find profile by user ID %s: %w", userID, err)
	}

	return &profile, nil
}

func (r *profileRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to get all profiles",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all profiles limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var profiles []*entity.Profile
	for rows.Next() {
		var profile entity.Profile
		if err := rows.Scan(profileDest(&profile)...); err != nil {
			r.log.Error("Failed to scan profile row", zap.Error(err))
			return nil, fmt.Errorf("scan profile row: %w", err)
		}
		profiles = append(profiles, &profile)
	}
	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate profile rows: %w", err)
	}

	return profiles, nil
}

func (r *profileRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count); err != nil {
		r.log.Error("Database error counting profiles", zap.Error(err))
		return 0, fmt.Errorf("count all profiles: %w", err)
	}

	return count, nil
}

func (r *profileRepository) SetBanned(ctx context.Context, userID uuid.UUID, banned bool) error {
	query := `UPDATE profiles SET is_banned = $2, updated_at = NOW() WHERE user_id = $1`

	result, err := r.db.Exec(ctx, query, userID, banned)
	if err != nil {
		r.log.Error("Failed to update ban flag",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Bool("banned", banned),
		)
		return fmt.Errorf("set banned=%t for user %s: %w", banned, userID, err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrProfileNotFound
	}

	return nil
}
