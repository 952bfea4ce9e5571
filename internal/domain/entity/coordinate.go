package entity

import "github.com/paulmach/orb"

//nolint:gochecknoglobals
var earthBound = orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Point converts the coordinate to an orb.Point (lng, lat order).
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

// IsValid checks that the coordinate lies within Earth bounds.
func (c Coordinate) IsValid() bool {
	return earthBound.Contains(c.Point())
}
