// Package geo provides great-circle distance helpers for venue and hospital listings.
package geo

import (
	"cmp"
	"math"
	"slices"
	"strconv"

	"github.com/paulmach/orb"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
// orb/geo uses the equatorial radius instead.
const EarthRadiusKm = 6371.0

// DistanceKm returns the haversine distance between two points in kilometers.
func DistanceKm(a, b orb.Point) float64 {
	lat1 := deg2rad(a.Lat())
	lat2 := deg2rad(b.Lat())
	dLat := lat2 - lat1
	dLng := deg2rad(b.Lon() - a.Lon())

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Round1 rounds a distance to one decimal place.
func Round1(km float64) float64 {
	return math.Round(km*10) / 10
}

// Format renders a distance with exactly one decimal, e.g. "0.0".
func Format(km float64) string {
	return strconv.FormatFloat(km, 'f', 1, 64)
}

// Ranked pairs an item with its rounded distance from an origin.
// DistanceKm is nil when the item has no coordinates.
type Ranked[T any] struct {
	Item       T
	DistanceKm *float64
}

// SortByDistance orders items by distance from origin. Items that locate reports
// as having no coordinates keep their relative order after every located item.
func SortByDistance[T any](items []T, origin orb.Point, locate func(T) (orb.Point, bool)) []Ranked[T] {
	ranked := make([]Ranked[T], 0, len(items))
	for _, item := range items {
		r := Ranked[T]{Item: item}
		if p, ok := locate(item); ok {
			d := Round1(DistanceKm(origin, p))
			r.DistanceKm = &d
		}
		ranked = append(ranked, r)
	}

	slices.SortStableFunc(ranked, func(a, b Ranked[T]) int {
		switch {
		case a.DistanceKm == nil && b.DistanceKm == nil:
			return 0
		case a.DistanceKm == nil:
			return 1
		case b.DistanceKm == nil:
			return -1
		default:
			return cmp.Compare(*a.DistanceKm, *b.DistanceKm)
		}
	})

	return ranked
}

func deg2rad(d float64) float64 {
	return d * math.Pi / 180
}
