package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ride-booking/internal/geo"
	"ride-booking/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	forwardKeyPrefix = "geocode:fwd:"
	reverseKeyPrefix = "geocode:rev:"
)

// Cached answers from Redis before asking next. Cache failures fall through
// to next and are only logged.
type Cached struct {
	next  Resolver
	redis redis.Cmdable
	ttl   time.Duration
	log   *zap.Logger
}

func NewCached(next Resolver, client redis.Cmdable, ttl time.Duration, log *zap.Logger) *Cached {
	return &Cached{
		next:  next,
		redis: client,
		ttl:   ttl,
		log:   log.With(zap.String("component", "geocode_cache")),
	}
}

func (c *Cached) Geocode(ctx context.Context, address string) (geo.Point, error) {
	key := forwardKeyPrefix + normalizeAddress(address)

	raw, err := c.redis.Get(ctx, key).Bytes()
	if err == nil {
		var p geo.Point
		if err := json.Unmarshal(raw, &p); err == nil {
			metrics.GeocodeCacheHits.WithLabelValues("hit").Inc()
			return p, nil
		}
	}
	c.miss(err, key)

	p, err := c.next.Geocode(ctx, address)
	if err != nil {
		return geo.Point{}, err
	}

	payload, _ := json.Marshal(p)
	if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.log.Warn("Failed to cache geocode result", zap.Error(err), zap.String("key", key))
	}
	return p, nil
}

// Reverse lookups share one entry per geohash cell.
func (c *Cached) Reverse(ctx context.Context, point geo.Point) (string, error) {
	key := reverseKeyPrefix + point.Geohash()

	address, err := c.redis.Get(ctx, key).Result()
	if err == nil {
		metrics.GeocodeCacheHits.WithLabelValues("hit").Inc()
		return address, nil
	}
	c.miss(err, key)

	address, err = c.next.Reverse(ctx, point)
	if err != nil {
		return "", err
	}

	if err := c.redis.Set(ctx, key, address, c.ttl).Err(); err != nil {
		c.log.Warn("Failed to cache reverse geocode result", zap.Error(err), zap.String("key", key))
	}
	return address, nil
}

func (c *Cached) miss(err error, key string) {
	if err != nil && !errors.Is(err, redis.Nil) {
		c.log.Warn("Geocode cache read failed", zap.Error(err), zap.String("key", key))
		metrics.GeocodeCacheHits.WithLabelValues("error").Inc()
		return
	}
	metrics.GeocodeCacheHits.WithLabelValues("miss").Inc()
}
