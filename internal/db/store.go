// exposes the places Store that the points-of-interest API is built on
package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Nixie-Tech-LLC/nearby/internal/model"
)

// PlaceFinder answers "which places of this kind lie within radiusMiles of a point".
// The Postgres store, the Redis geo index and the Elasticsearch index all implement it.
type PlaceFinder interface {
	Nearby(ctx context.Context, kind model.Kind, latitude, longitude, radiusMiles float64) ([]model.PointOfInterest, error)
}

type Store interface {
	PlaceFinder

	ListPlaces(ctx context.Context, kind model.Kind) ([]model.PointOfInterest, error)
	InsertPlaces(ctx context.Context, places []model.PointOfInterest) (int, error)
	CountPlaces(ctx context.Context) (int, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(db *sqlx.DB) Store {
	return &pgStore{db: db}
}
