package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Sulam-App/internal/domain/model"
	"Sulam-App/internal/infrastructure/database"
)

func newSQLiteRepo(t *testing.T) *SQLitePlacesRepository {
	t.Helper()
	client, err := database.NewSQLiteClient(filepath.Join(t.TempDir(), "places.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewSQLitePlacesRepository(client.DB)
}

func TestSQLitePlacesRepository_CRUD(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	poiID, err := repo.Create(ctx, &model.Place{Title: "Gate", Kind: model.KindPOI, Coords: &model.Point{X: 1, Y: 2}})
	require.NoError(t, err)
	zoneID, err := repo.Create(ctx, &model.Place{
		Title: "Hall", Kind: model.KindZone,
		Boundary: []model.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}},
	})
	require.NoError(t, err)
	assert.NotEqual(t, poiID, zoneID)

	pois, err := repo.List(ctx, model.KindPOI)
	require.NoError(t, err)
	require.Len(t, pois, 1)
	assert.Equal(t, model.Point{X: 1, Y: 2}, *pois[0].Coords)

	zone, err := repo.GetByID(ctx, model.KindZone, zoneID)
	require.NoError(t, err)
	assert.Len(t, zone.Boundary, 3)

	zone.Title = "Great Hall"
	zone.Boundary = append(zone.Boundary, model.Point{X: 0, Y: 4})
	require.NoError(t, repo.Update(ctx, zone))
	zone, err = repo.GetByID(ctx, model.KindZone, zoneID)
	require.NoError(t, err)
	assert.Equal(t, "Great Hall", zone.Title)
	assert.Len(t, zone.Boundary, 4)

	require.NoError(t, repo.Delete(ctx, model.KindPOI, poiID))
	_, err = repo.GetByID(ctx, model.KindPOI, poiID)
	assert.True(t, errors.Is(err, model.ErrPlaceNotFound))
}

func TestSQLitePlacesRepository_ListKeepsInsertionOrder(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	for _, title := range []string{"C", "A", "B"} {
		_, err := repo.Create(ctx, &model.Place{Title: title, Kind: model.KindPOI, Coords: &model.Point{}})
		require.NoError(t, err)
	}

	pois, err := repo.List(ctx, model.KindPOI)
	require.NoError(t, err)
	titles := []string{pois[0].Title, pois[1].Title, pois[2].Title}
	assert.Equal(t, []string{"C", "A", "B"}, titles)

	zones, err := repo.List(ctx, model.KindZone)
	require.NoError(t, err)
	assert.Empty(t, zones)
}

func TestSQLitePlacesRepository_UpdateMissing(t *testing.T) {
	repo := newSQLiteRepo(t)
	err := repo.Update(context.Background(), &model.Place{ID: "nope", Kind: model.KindPOI})
	assert.True(t, errors.Is(err, model.ErrPlaceNotFound))
}
