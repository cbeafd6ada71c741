package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Sulam-App/internal/domain/model"
	"Sulam-App/internal/domain/service"
)

func viewIDs(views []model.PlaceView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	return out
}

func TestOpenPlace_RecommendsNearest(t *testing.T) {
	catalog := newTestCatalog(poi("A", 0, 0), poi("B", 1, 0), poi("C", 5, 0), poi("D", 2, 0))
	u := NewExploreUseCase(catalog, service.NewSessionStore(), newTestProjector())
	ctx := context.Background()
	s := u.CreateSession(ctx)

	res, err := u.OpenPlace(ctx, s.SessionID, "A")
	require.NoError(t, err)

	assert.Equal(t, "A", res.Place.ID)
	assert.Equal(t, []string{"B", "D", "C"}, viewIDs(res.Recommendations))

	view, err := u.GetSession(ctx, s.SessionID)
	require.NoError(t, err)
	require.NotNil(t, view.Selection)
	assert.Equal(t, "A", view.Selection.ID)
}

func TestOpenPlace_ChainedExplorationRecomputes(t *testing.T) {
	catalog := newTestCatalog(poi("A", 0, 0), poi("B", 1, 0), poi("C", 5, 0), poi("D", 2, 0))
	u := NewExploreUseCase(catalog, service.NewSessionStore(), newTestProjector())
	ctx := context.Background()
	s := u.CreateSession(ctx)

	first, err := u.OpenPlace(ctx, s.SessionID, "A")
	require.NoError(t, err)
	next := first.Recommendations[0].ID

	second, err := u.OpenPlace(ctx, s.SessionID, next)
	require.NoError(t, err)

	assert.Equal(t, "B", second.Place.ID)
	assert.Equal(t, []string{"A", "D", "C"}, viewIDs(second.Recommendations))
}

func TestOpenPlace_PlaceWithoutPositionHasNoRecommendations(t *testing.T) {
	draft := &model.Place{ID: "Z", Title: "Draft", Kind: model.KindZone, Boundary: []model.Point{{X: 0, Y: 0}}}
	catalog := newTestCatalog(poi("A", 0, 0))
	catalog.Replace(model.KindZone, []*model.Place{draft})
	u := NewExploreUseCase(catalog, service.NewSessionStore(), newTestProjector())
	s := u.CreateSession(context.Background())

	res, err := u.OpenPlace(context.Background(), s.SessionID, "Z")
	require.NoError(t, err)

	assert.NotNil(t, res.Recommendations)
	assert.Empty(t, res.Recommendations)
	assert.Nil(t, res.Place.Position)
}

func TestOpenPlace_Errors(t *testing.T) {
	u := NewExploreUseCase(newTestCatalog(poi("A", 0, 0)), service.NewSessionStore(), newTestProjector())
	ctx := context.Background()

	_, err := u.OpenPlace(ctx, "nope", "A")
	assert.True(t, errors.Is(err, model.ErrSessionNotFound))

	s := u.CreateSession(ctx)
	_, err = u.OpenPlace(ctx, s.SessionID, "missing")
	assert.True(t, errors.Is(err, model.ErrPlaceNotFound))
}

func TestDismiss_ClearsSelection(t *testing.T) {
	u := NewExploreUseCase(newTestCatalog(poi("A", 0, 0)), service.NewSessionStore(), newTestProjector())
	ctx := context.Background()
	s := u.CreateSession(ctx)
	_, err := u.OpenPlace(ctx, s.SessionID, "A")
	require.NoError(t, err)

	view, err := u.Dismiss(ctx, s.SessionID)
	require.NoError(t, err)

	assert.Nil(t, view.Selection)
	assert.Equal(t, uint64(2), view.Generation)
}

func TestListPlacesAndLocate(t *testing.T) {
	u := NewExploreUseCase(newTestCatalog(poi("Gate", 0, 0), poi("Pond", 1, 1)), service.NewSessionStore(), newTestProjector())
	ctx := context.Background()

	assert.Equal(t, []string{"Pond"}, viewIDs(u.ListPlaces(ctx, "po", "")))
	assert.Len(t, u.ListPlaces(ctx, "", model.KindPOI), 2)

	got, err := u.GetPlace(ctx, "Gate")
	require.NoError(t, err)
	assert.Equal(t, "placeholder.jpg", got.Img)

	assert.Equal(t, model.Point{X: 50, Y: 50}, u.Locate(ctx, model.LatLng{Lat: 5, Lng: 5}))
}

func TestGetSession_SelectionFollowsCatalogEdits(t *testing.T) {
	zone := &model.Place{ID: "Z", Title: "Plaza", Kind: model.KindZone,
		Boundary: []model.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}}
	catalog := service.NewCatalog()
	catalog.Replace(model.KindZone, []*model.Place{zone})
	u := NewExploreUseCase(catalog, service.NewSessionStore(), newTestProjector())
	ctx := context.Background()
	s := u.CreateSession(ctx)

	_, err := u.OpenPlace(ctx, s.SessionID, "Z")
	require.NoError(t, err)

	shifted := &model.Place{ID: "Z", Title: "Plaza (moved)", Kind: model.KindZone,
		Boundary: []model.Point{{X: 5, Y: 0}, {X: 15, Y: 0}, {X: 15, Y: 10}, {X: 5, Y: 10}}}
	catalog.Replace(model.KindZone, []*model.Place{shifted})

	view, err := u.GetSession(ctx, s.SessionID)
	require.NoError(t, err)
	require.NotNil(t, view.Selection)
	require.NotNil(t, view.Selection.Position)
	assert.Equal(t, model.Point{X: 10, Y: 5}, *view.Selection.Position)
	assert.Equal(t, "Plaza (moved)", view.Selection.Title)

	catalog.Replace(model.KindZone, nil)
	view, err = u.GetSession(ctx, s.SessionID)
	require.NoError(t, err)
	require.NotNil(t, view.Selection)
	assert.Equal(t, "Plaza (moved)", view.Selection.Title)
}

func TestTrackLocation_KeepsSessionAlive(t *testing.T) {
	sessions := service.NewSessionStore()
	u := NewExploreUseCase(newTestCatalog(), sessions, newTestProjector())
	ctx := context.Background()
	tracked := u.CreateSession(ctx)
	u.CreateSession(ctx)

	time.Sleep(200 * time.Millisecond)
	p, err := u.TrackLocation(ctx, tracked.SessionID, model.LatLng{Lat: 5, Lng: 5})
	require.NoError(t, err)
	assert.InDelta(t, 50, p.X, 1e-9)
	assert.InDelta(t, 50, p.Y, 1e-9)

	assert.Equal(t, 1, sessions.Prune(100*time.Millisecond))
	_, err = u.GetSession(ctx, tracked.SessionID)
	require.NoError(t, err)

	_, err = u.TrackLocation(ctx, "missing", model.LatLng{Lat: 5, Lng: 5})
	assert.True(t, errors.Is(err, model.ErrSessionNotFound))
}

func TestMapInfo(t *testing.T) {
	u := NewExploreUseCase(newTestCatalog(), service.NewSessionStore(), newTestProjector())

	info := u.MapInfo(context.Background())

	assert.Equal(t, 100.0, info.Width)
	assert.Equal(t, model.LatLng{Lat: 10, Lng: 0}, info.TopLeft)
}
