package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ride-booking/pkg/utils"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "ok", nil)
	})
}

func TestRateLimitCountsPerIP(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	limiter := NewRateLimiter(client, zap.NewNop())
	handler := limiter.Limit(RateRule{Name: "api", Limit: 2, Window: time.Minute})(okHandler())

	key := "ratelimit:api:ip:203.0.113.7"
	redisMock.ExpectIncr(key).SetVal(1)
	redisMock.ExpectExpire(key, time.Minute).SetVal(true)
	redisMock.ExpectIncr(key).SetVal(2)
	redisMock.ExpectIncr(key).SetVal(3)
	redisMock.ExpectTTL(key).SetVal(12500 * time.Millisecond)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/rides", nil)
		req.RemoteAddr = "203.0.113.7:40000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("RateLimit-Remaining"))

	second := send()
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "0", second.Header().Get("RateLimit-Remaining"))

	third := send()
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Equal(t, "13", third.Header().Get("Retry-After"))
	assert.Equal(t, "Too many requests, please try again later", decode(t, third).Message)

	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestRateLimitKeysByUser(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	limiter := NewRateLimiter(client, zap.NewNop())
	handler := limiter.Limit(RateRule{Name: "create", Limit: 1, Window: time.Hour, Message: "Slow down"})(okHandler())

	user := utils.UserContext{UserID: uuid.New()}
	key := "ratelimit:create:user:" + user.UserID.String()
	redisMock.ExpectIncr(key).SetVal(2)
	redisMock.ExpectTTL(key).SetErr(errors.New("ttl unavailable"))

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", nil)
	req = req.WithContext(utils.SetUserContext(req.Context(), user))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "3600", rec.Header().Get("Retry-After"))
	assert.Equal(t, "Slow down", decode(t, rec).Message)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestRateLimitFailsOpen(t *testing.T) {
	client, redisMock := redismock.NewClientMock()
	limiter := NewRateLimiter(client, zap.NewNop())
	handler := limiter.Limit(RateRule{Name: "api", Limit: 1, Window: time.Minute})(okHandler())

	redisMock.ExpectIncr("ratelimit:api:ip:192.0.2.1").SetErr(errors.New("connection refused"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rides", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestRateLimitPassthrough(t *testing.T) {
	client, redisMock := redismock.NewClientMock()

	tests := []struct {
		name    string
		limiter *RateLimiter
		rule    RateRule
		remote  string
	}{
		{"nil limiter", nil, RateRule{Name: "api", Limit: 1, Window: time.Minute}, "192.0.2.1:1"},
		{"zero limit", NewRateLimiter(client, zap.NewNop()), RateRule{Name: "api", Window: time.Minute}, "192.0.2.1:1"},
		{"loopback skipped", NewRateLimiter(client, zap.NewNop()), RateRule{Name: "api", Limit: 1, Window: time.Minute, SkipLoopback: true}, "[::1]:5000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/rides", nil)
			req.RemoteAddr = tt.remote
			rec := httptest.NewRecorder()

			tt.limiter.Limit(tt.rule)(okHandler()).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Empty(t, rec.Header().Get("RateLimit-Limit"))
		})
	}

	assert.NoError(t, redisMock.ExpectationsWereMet())
}
