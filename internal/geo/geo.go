// Package geo implements great-circle distance and radius filtering.
package geo

import (
	"math"
	"sort"

	"ride-booking/internal/data/entity"

	"github.com/mmcloughlin/geohash"
)

const EarthRadiusKm = 6371.0

// CellPrecision is the geohash length used for cell keys (about 150 m).
const CellPrecision = 7

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180 &&
		!math.IsNaN(p.Lat) && !math.IsNaN(p.Lng)
}

func (p Point) Validate() error {
	if !p.Valid() {
		return entity.ErrInvalidCoordinates
	}
	return nil
}

// Geohash returns the cell key of p.
func (p Point) Geohash() string {
	return geohash.EncodeWithPrecision(p.Lat, p.Lng, CellPrecision)
}

// Distance is the haversine distance in kilometers rounded to two decimals.
func Distance(a, b Point) float64 {
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	d := 2 * EarthRadiusKm * math.Asin(math.Sqrt(math.Min(1, h)))

	return math.Round(d*100) / 100
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

type Ranked[T any] struct {
	Item     T
	Distance float64
}

// WithinRadius keeps the items whose origin lies within radiusKm of center,
// nearest first. Items without an origin are dropped. Equal distances keep
// their input order.
func WithinRadius[T any](center Point, radiusKm float64, items []T, origin func(T) (Point, bool)) []Ranked[T] {
	matches := make([]Ranked[T], 0, len(items))
	for _, item := range items {
		p, ok := origin(item)
		if !ok {
			continue
		}
		d := Distance(center, p)
		if d <= radiusKm {
			matches = append(matches, Ranked[T]{Item: item, Distance: d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	return matches
}

// RideOrigin extracts the departure point of a ride, if resolved.
func RideOrigin(ride *entity.RideWithDriver) (Point, bool) {
	if ride == nil || !ride.Coordinates.HasOrigin() {
		return Point{}, false
	}
	return Point{Lat: *ride.Coordinates.FromLat, Lng: *ride.Coordinates.FromLng}, true
}
