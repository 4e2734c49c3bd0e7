package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/nearby/internal/model"
)

func setupStore(t *testing.T) Store {
	t.Helper()
	conn, err := OpenTestDB(context.Background(), "../../migrations")
	if err != nil {
		t.Skipf("database not available: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	_, err = conn.Exec(`TRUNCATE places RESTART IDENTITY`)
	require.NoError(t, err)
	return NewStore(conn)
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	conn, err := OpenTestDB(context.Background(), "../../migrations")
	if err != nil {
		t.Skipf("database not available: %v", err)
	}
	defer conn.Close()

	applied, err := RunMigrations(context.Background(), conn, "../../migrations")
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestNearbyFiltersByKindAndRadius(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	places, err := ReadSeedFile("../../seed/places.tsv")
	require.NoError(t, err)
	n, err := store.InsertPlaces(ctx, places)
	require.NoError(t, err)
	assert.Equal(t, len(places), n)

	// inserting the same rows again is a no-op
	n, err = store.InsertPlaces(ctx, places)
	require.NoError(t, err)
	assert.Zero(t, n)

	// downtown Chicago, 5 miles: only the loop masjid
	masjids, err := store.Nearby(ctx, model.KindMasjid, 41.8781, -87.6298, 5)
	require.NoError(t, err)
	require.Len(t, masjids, 1)
	assert.Equal(t, "Downtown Islamic Center", masjids[0].Name)

	// 25 miles covers the suburbs too
	masjids, err = store.Nearby(ctx, model.KindMasjid, 41.8781, -87.6298, 25)
	require.NoError(t, err)
	assert.Len(t, masjids, 4)

	restaurants, err := store.Nearby(ctx, model.KindRestaurant, 41.8781, -87.6298, 1)
	require.NoError(t, err)
	require.Len(t, restaurants, 1)
	assert.Equal(t, "Halal Guys", restaurants[0].Name)

	all, err := store.ListPlaces(ctx, model.KindRestaurant)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	count, err := store.CountPlaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, count)
}
