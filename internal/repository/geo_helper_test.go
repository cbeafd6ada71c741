package repository

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Sulam-App/internal/domain/model"
)

func TestDocumentToPlace_POI(t *testing.T) {
	p := DocumentToPlace("p1", model.KindPOI, map[string]interface{}{
		"title":  "Gate",
		"desc":   "Main entrance",
		"coords": map[string]interface{}{"x": int64(120), "y": "45.5"},
	})

	require.NotNil(t, p.Coords)
	assert.Equal(t, model.Point{X: 120, Y: 45.5}, *p.Coords)
	assert.Equal(t, "Gate", p.Title)
	assert.Empty(t, p.Img)
	assert.True(t, p.HasPosition())
}

func TestDocumentToPlace_NonNumericCoordsHaveNoPosition(t *testing.T) {
	p := DocumentToPlace("p2", model.KindPOI, map[string]interface{}{
		"coords": map[string]interface{}{"x": "abc", "y": 1.0},
	})

	require.NotNil(t, p.Coords)
	assert.True(t, math.IsNaN(p.Coords.X))
	assert.False(t, p.HasPosition())
}

func TestDocumentToPlace_ZoneKeepsOrder(t *testing.T) {
	p := DocumentToPlace("z1", model.KindZone, map[string]interface{}{
		"title": "Hall",
		"coordinates": []interface{}{
			map[string]interface{}{"x": 0.0, "y": 0.0},
			map[string]interface{}{"x": int64(10), "y": 0.0},
			map[string]interface{}{"x": 10.0, "y": "10"},
			"garbage",
		},
	})

	require.Len(t, p.Boundary, 4)
	assert.Equal(t, model.Point{X: 10, Y: 0}, p.Boundary[1])
	assert.True(t, math.IsNaN(p.Boundary[3].X))
	assert.False(t, p.HasPosition())
}

func TestPlaceToDocument_RoundTripShape(t *testing.T) {
	zone := &model.Place{
		ID: "z", Title: "Hall", Kind: model.KindZone,
		Boundary: []model.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}},
	}

	doc := PlaceToDocument(zone)

	assert.NotContains(t, doc, "coords")
	coords, ok := doc["coordinates"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"x": 4.0, "y": 4.0}, coords[2])

	back := DocumentToPlace("z", model.KindZone, doc)
	assert.Equal(t, zone.Boundary, back.Boundary)
}

func TestCollectionFor(t *testing.T) {
	assert.Equal(t, "pois", CollectionFor(model.KindPOI))
	assert.Equal(t, "zones", CollectionFor(model.KindZone))
}
