package entity

import "github.com/google/uuid"

type Profile struct {
	Base
	UserID     uuid.UUID `db:"user_id"`
	FullName   *string   `db:"full_name"`
	AvatarURL  *string   `db:"avatar_url"`
	Rating     float64   `db:"rating"`
	TripsCount int       `db:"trips_count"`
	IsVerified bool      `db:"is_verified"`
	IsAdmin    bool      `db:"is_admin"`
	IsBanned   bool      `db:"is_banned"`
}
