package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceKm_SamePoint(t *testing.T) {
	p := orb.Point{77.2090, 28.6139}

	assert.Equal(t, "0.0", Format(DistanceKm(p, p)))
}

func TestDistanceKm_KnownPairs(t *testing.T) {
	tests := []struct {
		name     string
		a, b     orb.Point
		expected string
	}{
		{
			name:     "Delhi to Mumbai",
			a:        orb.Point{77.2090, 28.6139},
			b:        orb.Point{72.8777, 19.0760},
			expected: "1148.1",
		},
		{
			name:     "one degree of latitude",
			a:        orb.Point{0, 0},
			b:        orb.Point{0, 1},
			expected: "111.2",
		},
		{
			name:     "London to Paris",
			a:        orb.Point{-0.1278, 51.5074},
			b:        orb.Point{2.3522, 48.8566},
			expected: "343.6",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(DistanceKm(tt.a, tt.b)))
			assert.Equal(t, tt.expected, Format(DistanceKm(tt.b, tt.a)))
		})
	}
}

func TestSortByDistance_MissingCoordinatesLast(t *testing.T) {
	type place struct {
		name string
		loc  *orb.Point
	}
	near := orb.Point{77.21, 28.62}
	far := orb.Point{72.88, 19.08}
	places := []place{
		{name: "unknown-1"},
		{name: "far", loc: &far},
		{name: "unknown-2"},
		{name: "near", loc: &near},
	}

	ranked := SortByDistance(places, orb.Point{77.2090, 28.6139}, func(p place) (orb.Point, bool) {
		if p.loc == nil {
			return orb.Point{}, false
		}

		return *p.loc, true
	})

	require.Len(t, ranked, 4)
	names := make([]string, 0, len(ranked))
	for _, r := range ranked {
		names = append(names, r.Item.name)
	}
	assert.Equal(t, []string{"near", "far", "unknown-1", "unknown-2"}, names)
	assert.Nil(t, ranked[2].DistanceKm)
	require.NotNil(t, ranked[0].DistanceKm)
	assert.InDelta(t, 1.0, *ranked[0].DistanceKm, 0.5)
}
