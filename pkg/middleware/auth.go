package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"ride-booking/internal/access"
	"ride-booking/internal/data/entity"
	"ride-booking/pkg/utils"

	"go.uber.org/zap"
)

// IdentityResolver turns a bearer token into a caller.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (access.Caller, error)
}

// Auth rejects requests without a valid bearer token and stores the caller
// in the request context.
func Auth(identity IdentityResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			caller, err := identity.Resolve(r.Context(), strings.TrimSpace(token))
			switch {
			case err == nil:
			case errors.Is(err, entity.ErrBanned):
				logger.Warn("Banned user rejected", zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Account is banned")
				return
			case errors.Is(err, entity.ErrUnauthenticated):
				logger.Debug("Invalid token", zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			default:
				logger.Error("Failed to resolve identity", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			user := utils.UserContext{UserID: caller.UserID, IsAdmin: caller.IsAdmin}
			next.ServeHTTP(w, r.WithContext(utils.SetUserContext(r.Context(), user)))
		})
	}
}

// Admin must run after Auth.
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := utils.GetUserFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if !user.IsAdmin {
				logger.Warn("Admin check: non-admin access attempt",
					zap.String("user_id", user.UserID.String()),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
