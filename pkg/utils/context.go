package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const userKey contextKey = "user"

// UserContext is what the auth middleware learned about the requester.
type UserContext struct {
	UserID  uuid.UUID
	IsAdmin bool
}

func SetUserContext(ctx context.Context, user UserContext) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext reports false when no authenticated user was stored.
func GetUserFromContext(ctx context.Context) (UserContext, bool) {
	user, ok := ctx.Value(userKey).(UserContext)
	if !ok || user.UserID == uuid.Nil {
		return UserContext{}, false
	}
	return user, true
}
