package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"ride-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateRule is one fixed-window budget. Requests are counted per user when
// Auth ran first, per client IP otherwise.
type RateRule struct {
	Name    string
	Limit   int
	Window  time.Duration
	Message string
	// SkipLoopback exempts requests from 127.0.0.1 and ::1.
	SkipLoopback bool
}

// RateLimiter keeps its counters in Redis so every instance shares them.
type RateLimiter struct {
	client redis.Cmdable
	prefix string
	log    *zap.Logger
}

func NewRateLimiter(client redis.Cmdable, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		prefix: "ratelimit",
		log:    logger.With(zap.String("component", "ratelimit")),
	}
}

// Limit enforces rule. A nil limiter or a non-positive limit lets everything through.
func (l *RateLimiter) Limit(rule RateRule) func(http.Handler) http.Handler {
	if l == nil || rule.Limit <= 0 || rule.Window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if rule.Message == "" {
		rule.Message = "Too many requests, please try again later"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if rule.SkipLoopback && isLoopback(ip) {
				next.ServeHTTP(w, r)
				return
			}

			identity := "ip:" + ip
			if user, ok := utils.GetUserFromContext(r.Context()); ok {
				identity = "user:" + user.UserID.String()
			}
			key := l.prefix + ":" + rule.Name + ":" + identity

			count, err := l.hit(r.Context(), key, rule.Window)
			if err != nil {
				// Redis trouble must not take the API down
				l.log.Warn("Rate limit check failed, allowing request",
					zap.Error(err),
					zap.String("rule", rule.Name),
				)
				next.ServeHTTP(w, r)
				return
			}

			remaining := max(int64(rule.Limit)-count, 0)
			w.Header().Set("RateLimit-Limit", strconv.Itoa(rule.Limit))
			w.Header().Set("RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(rule.Limit) {
				retry := l.retryAfter(r.Context(), key, rule.Window)
				w.Header().Set("RateLimit-Reset", retry)
				w.Header().Set("Retry-After", retry)
				l.log.Info("Rate limit exceeded",
					zap.String("rule", rule.Name),
					zap.String("identity", identity),
					zap.String("path", r.URL.Path),
				)
				utils.ResponseTooManyRequests(w, rule.Message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// hit counts one request; the first hit of a window arms the expiry.
func (l *RateLimiter) hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, err
		}
	}
	return count, nil
}

func (l *RateLimiter) retryAfter(ctx context.Context, key string, window time.Duration) string {
	ttl, err := l.client.TTL(ctx, key).Result()
	if err != nil || ttl <= 0 {
		ttl = window
	}
	return strconv.Itoa(int(math.Ceil(ttl.Seconds())))
}

// clientIP expects chi's RealIP to have rewritten RemoteAddr already.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func isLoopback(ip string) bool {
	parsed := net.ParseIP(ip)
	return parsed != nil && parsed.IsLoopback()
}
