package response

import (
	"encoding/json"
	"time"

	"ride-booking/internal/data/entity"
	"ride-booking/internal/geo"
)

type ProfileResponse struct {
	UserID     string    `json:"user_id"`
	FullName   *string   `json:"full_name"`
	AvatarURL  *string   `json:"avatar_url"`
	Rating     float64   `json:"rating"`
	TripsCount int       `json:"trips_count"`
	IsVerified bool      `json:"is_verified"`
	IsAdmin    bool      `json:"is_admin"`
	IsBanned   bool      `json:"is_banned"`
	CreatedAt  time.Time `json:"created_at"`
}

type NotificationResponse struct {
	ID        string           `json:"id"`
	Type      entity.EventType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Data      json.RawMessage  `json:"data,omitempty"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}

type GeocodeResponse struct {
	Address string    `json:"address"`
	Point   geo.Point `json:"point"`
}

func ProfileToResponse(p *entity.Profile) ProfileResponse {
	return ProfileResponse{
		UserID:     p.UserID.String(),
		FullName:   p.FullName,
		AvatarURL:  p.AvatarURL,
		Rating:     p.Rating,
		TripsCount: p.TripsCount,
		IsVerified: p.IsVerified,
		IsAdmin:    p.IsAdmin,
		IsBanned:   p.IsBanned,
		CreatedAt:  p.CreatedAt,
	}
}

func NotificationToResponse(n *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID.String(),
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
