// Package geocoding translates addresses to coordinates and back.
package geocoding

import (
	"context"
	"strings"

	"ride-booking/internal/geo"
)

// Resolver fails with entity.ErrCoordinatesNotFound when nothing matches.
type Resolver interface {
	Geocode(ctx context.Context, address string) (geo.Point, error)
	Reverse(ctx context.Context, point geo.Point) (string, error)
}

// normalizeAddress folds case and whitespace so equivalent queries share a cache entry.
func normalizeAddress(address string) string {
	return strings.Join(strings.Fields(strings.ToLower(address)), " ")
}
