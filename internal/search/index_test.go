package search

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/nearby/internal/model"
)

func TestDocRoundTripKeepsPosition(t *testing.T) {
	city := "Chicago"
	p := model.PointOfInterest{ID: 3, Kind: model.KindRestaurant, Name: "Sabri Nihari", Latitude: 41.9976, Longitude: -87.6902, City: &city}

	got := toDoc(p).place("3")

	assert.Equal(t, p, got)
}

func setupIndex(t *testing.T) *Index {
	t.Helper()
	url := os.Getenv("TEST_ELASTIC_URL")
	if url == "" {
		t.Skip("TEST_ELASTIC_URL not set")
	}
	x, err := NewIndex(url, "test-places-"+strings.ToLower(t.Name()))
	if err != nil {
		t.Skipf("elasticsearch not available: %v", err)
	}
	ctx := context.Background()
	dropIndex(ctx, x)
	require.NoError(t, x.EnsureIndex(ctx))
	t.Cleanup(func() { dropIndex(ctx, x) })
	return x
}

func dropIndex(ctx context.Context, x *Index) {
	_, _ = x.client.DeleteIndex(x.name).Do(ctx)
}

func TestIndexNearby(t *testing.T) {
	x := setupIndex(t)
	ctx := context.Background()

	require.NoError(t, x.IndexPlaces(ctx, []model.PointOfInterest{
		{ID: 1, Kind: model.KindMasjid, Name: "Downtown Islamic Center", Latitude: 41.8790, Longitude: -87.6270},
		{ID: 2, Kind: model.KindMasjid, Name: "Mosque Foundation", Latitude: 41.7236, Longitude: -87.8028},
		{ID: 3, Kind: model.KindRestaurant, Name: "Halal Guys", Latitude: 41.8827, Longitude: -87.6278},
	}))

	masjids, err := x.Nearby(ctx, model.KindMasjid, 41.8781, -87.6298, 5)
	require.NoError(t, err)
	require.Len(t, masjids, 1)
	assert.Equal(t, 1, masjids[0].ID)

	masjids, err = x.Nearby(ctx, model.KindMasjid, 41.8781, -87.6298, 20)
	require.NoError(t, err)
	require.Len(t, masjids, 2)
	assert.Equal(t, "Downtown Islamic Center", masjids[0].Name)

	restaurants, err := x.Nearby(ctx, model.KindRestaurant, 41.8781, -87.6298, 1)
	require.NoError(t, err)
	require.Len(t, restaurants, 1)
	assert.Equal(t, "Halal Guys", restaurants[0].Name)
}
