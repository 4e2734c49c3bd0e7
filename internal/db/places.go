package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/nearby/internal/model"
	"github.com/Nixie-Tech-LLC/nearby/internal/spatial"
)

const placeColumns = `id, kind, name, latitude, longitude, address, city, state`

// Nearby prefilters on the bounding box of the search circle, which the
// (kind, latitude, longitude) index serves, then keeps the rows within radiusMiles.
func (s *pgStore) Nearby(ctx context.Context, kind model.Kind, latitude, longitude, radiusMiles float64) ([]model.PointOfInterest, error) {
	box := spatial.BoundsForRadius(latitude, longitude, radiusMiles)

	lonClause := `longitude BETWEEN $4 AND $5`
	if box.CrossesAntimeridian() {
		lonClause = `(longitude >= $4 OR longitude <= $5)`
	}

	var candidates []model.PointOfInterest
	err := s.db.SelectContext(ctx, &candidates, `
		SELECT `+placeColumns+`
		FROM places
		WHERE kind = $1
		  AND latitude BETWEEN $2 AND $3
		  AND `+lonClause+`
		ORDER BY id
		`, kind, box.MinLat, box.MaxLat, box.MinLon, box.MaxLon)
	if err != nil {
		log.Error().Err(err).Str("kind", string(kind)).Msg("failed to query nearby places")
		return nil, fmt.Errorf("query nearby %s: %w", kind.Plural(), err)
	}

	out := make([]model.PointOfInterest, 0, len(candidates))
	for _, p := range candidates {
		if spatial.WithinMiles(latitude, longitude, p.Latitude, p.Longitude, radiusMiles) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *pgStore) ListPlaces(ctx context.Context, kind model.Kind) ([]model.PointOfInterest, error) {
	places := []model.PointOfInterest{}
	err := s.db.SelectContext(ctx, &places, `
		SELECT `+placeColumns+`
		FROM places
		WHERE kind = $1
		ORDER BY id
		`, kind)
	if err != nil {
		log.Error().Err(err).Str("kind", string(kind)).Msg("failed to list places")
		return nil, err
	}
	return places, nil
}

// InsertPlaces writes places in one transaction, skipping rows that already
// exist with the same kind, name and position. Returns how many were inserted.
func (s *pgStore) InsertPlaces(ctx context.Context, places []model.PointOfInterest) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for _, p := range places {
		res, err := tx.NamedExecContext(ctx, `
			INSERT INTO places (kind, name, latitude, longitude, address, city, state)
			VALUES (:kind, :name, :latitude, :longitude, :address, :city, :state)
			ON CONFLICT (kind, name, latitude, longitude) DO NOTHING
			`, p)
		if err != nil {
			return 0, fmt.Errorf("insert %q: %w", p.Name, err)
		}
		n, _ := res.RowsAffected()
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

func (s *pgStore) CountPlaces(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM places`)
	return n, err
}
