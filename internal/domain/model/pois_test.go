package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlacePosition_ZoneCentreFollowsBoundary(t *testing.T) {
	zone := &Place{
		ID:       "zone-1",
		Kind:     KindZone,
		Boundary: []Point{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}},
	}
	before, ok := zone.Position()
	require.True(t, ok)
	assert.Equal(t, Point{X: 5, Y: 5}, before)

	zone.Boundary = []Point{{X: 5, Y: 0}, {X: 5, Y: 10}, {X: 15, Y: 10}, {X: 15, Y: 0}}
	after, ok := zone.Position()
	require.True(t, ok)

	assert.Equal(t, 5.0, after.X-before.X)
	assert.Equal(t, 0.0, after.Y-before.Y)
}

func TestPlacePosition_InvalidShapes(t *testing.T) {
	tests := []struct {
		name  string
		place Place
	}{
		{"座標なしPOI", Place{Kind: KindPOI}},
		{"NaN座標POI", Place{Kind: KindPOI, Coords: &Point{X: math.NaN(), Y: 1}}},
		{"2点ゾーン", Place{Kind: KindZone, Boundary: []Point{{X: 0, Y: 0}, {X: 1, Y: 1}}}},
		{"Infを含むゾーン", Place{Kind: KindZone, Boundary: []Point{{X: 0, Y: 0}, {X: math.Inf(1), Y: 1}, {X: 2, Y: 0}}}},
		{"不明な種別", Place{Kind: "other", Coords: &Point{X: 1, Y: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := tt.place.Position()
			assert.False(t, ok)
			assert.False(t, tt.place.HasPosition())
		})
	}
}

func TestPlaceInput_ToPlaceCopiesByKind(t *testing.T) {
	in := &PlaceInput{
		Title:       "Stage",
		Coords:      &Point{X: 3, Y: 4},
		Coordinates: []Point{{X: 0, Y: 0}, {X: 0, Y: 2}, {X: 2, Y: 2}},
	}

	poi := in.ToPlace("p1", KindPOI)
	zone := in.ToPlace("z1", KindZone)

	assert.Equal(t, &Point{X: 3, Y: 4}, poi.Coords)
	assert.Nil(t, poi.Boundary)
	assert.Nil(t, zone.Coords)
	assert.Len(t, zone.Boundary, 3)

	in.Coords.X = 99
	assert.Equal(t, 3.0, poi.Coords.X)
}
