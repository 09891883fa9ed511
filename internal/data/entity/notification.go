package entity

import (
	"encoding/json"

	"github.com/google/uuid"
)

type Notification struct {
	BaseSimple
	UserID  uuid.UUID       `db:"user_id"`
	Type    EventType       `db:"type"`
	Title   string          `db:"title"`
	Message string          `db:"message"`
	Data    json.RawMessage `db:"data"`
	IsRead  bool            `db:"is_read"`
}
