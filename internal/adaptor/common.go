package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"ride-booking/internal/access"
	"ride-booking/internal/data/entity"
	"ride-booking/internal/dto/request"
	"ride-booking/internal/usecase"
	"ride-booking/pkg/utils"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// callerFrom answers 401 itself when the request carries no caller.
func callerFrom(w http.ResponseWriter, r *http.Request) (access.Caller, bool) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return access.Caller{}, false
	}
	return access.Caller{UserID: user.UserID, IsAdmin: user.IsAdmin}, true
}

// decodeJSON decodes and validates the body into dst, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return validated(w, dst)
}

func validated(w http.ResponseWriter, req any) bool {
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return false
	}
	return true
}

func paginationFrom(query url.Values) request.PaginatedRequest {
	return request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), utils.DefaultPerPage),
	}
}

// queryErrors collects malformed query parameters.
type queryErrors map[string]string

func (q queryErrors) floatPtr(query url.Values, key string) *float64 {
	v, ok := utils.ParseFloatPtr(query.Get(key))
	if !ok {
		q[key] = "Must be a number"
	}
	return v
}

func (q queryErrors) requiredFloat(query url.Values, key string) float64 {
	if query.Get(key) == "" {
		q[key] = "This field is required"
		return 0
	}
	v, ok := utils.ParseFloat(query.Get(key))
	if !ok {
		q[key] = "Must be a number"
	}
	return v
}

func (q queryErrors) boolPtr(query url.Values, key string) *bool {
	v, ok := utils.ParseBoolPtr(query.Get(key))
	if !ok {
		q[key] = "Must be true or false"
	}
	return v
}

func (q queryErrors) respond(w http.ResponseWriter) bool {
	if len(q) == 0 {
		return false
	}
	utils.ResponseBadRequest(w, "Validation failed", map[string]string(q))
	return true
}

// handleServiceError maps domain error kinds to HTTP responses. Anything
// unrecognised is logged and hidden behind a generic 500.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string, fields ...zap.Field) {
	fields = append(fields, zap.Error(err), zap.String("operation", operation))

	switch {
	case errors.Is(err, entity.ErrUnauthenticated):
		utils.ResponseUnauthorized(w, err.Error())

	case errors.Is(err, entity.ErrForbidden):
		log.Warn(operation+" failed - forbidden", fields...)
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, entity.ErrNotFound):
		log.Debug(operation+" failed - not found", fields...)
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, entity.ErrInvalidInput), errors.Is(err, entity.ErrInvalidTransition):
		log.Debug(operation+" failed - invalid", fields...)
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, entity.ErrInsufficientSeats), errors.Is(err, entity.ErrConflict):
		log.Info(operation+" failed - conflict", fields...)
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, usecase.ErrGeocoderUnavailable),
		errors.Is(err, gobreaker.ErrOpenState),
		errors.Is(err, gobreaker.ErrTooManyRequests):
		log.Warn(operation+" failed - geocoder unavailable", fields...)
		utils.ResponseServiceUnavailable(w, "Geocoding is temporarily unavailable")

	default:
		log.Error("Failed to "+operation, fields...)
		utils.ResponseInternalError(w, "Internal server error")
	}
}
