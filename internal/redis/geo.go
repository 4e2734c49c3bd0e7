package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/nearby/internal/model"
	"github.com/Nixie-Tech-LLC/nearby/internal/spatial"
)

const keyPrefix = "places"

// GeoIndex keeps one GEO set per kind for radius lookups and a hash with the
// full place records, both keyed by place id.
type GeoIndex struct {
	rdb    *redis.Client
	prefix string
}

func NewGeoIndex(rdb *redis.Client) *GeoIndex {
	return &GeoIndex{rdb: rdb, prefix: keyPrefix}
}

func (g *GeoIndex) geoKey(kind model.Kind) string {
	return fmt.Sprintf("%s:geo:%s", g.prefix, kind)
}

func (g *GeoIndex) dataKey(kind model.Kind) string {
	return fmt.Sprintf("%s:data:%s", g.prefix, kind)
}

// Rebuild replaces the index for kind with places in a single transaction.
func (g *GeoIndex) Rebuild(ctx context.Context, kind model.Kind, places []model.PointOfInterest) error {
	locations := make([]*redis.GeoLocation, 0, len(places))
	records := make(map[string]any, len(places))
	for _, p := range places {
		member := strconv.Itoa(p.ID)
		locations = append(locations, &redis.GeoLocation{
			Name:      member,
			Longitude: p.Longitude,
			Latitude:  p.Latitude,
		})
		body, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode place %d: %w", p.ID, err)
		}
		records[member] = body
	}

	_, err := g.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, g.geoKey(kind), g.dataKey(kind))
		if len(locations) == 0 {
			return nil
		}
		pipe.GeoAdd(ctx, g.geoKey(kind), locations...)
		pipe.HSet(ctx, g.dataKey(kind), records)
		return nil
	})
	if err != nil {
		return fmt.Errorf("rebuild %s index: %w", kind.Plural(), err)
	}

	log.Info().Str("kind", string(kind)).Int("count", len(places)).Msg("redis geo index rebuilt")
	return nil
}

// Nearby runs GEOSEARCH in miles, nearest first.
func (g *GeoIndex) Nearby(ctx context.Context, kind model.Kind, latitude, longitude, radiusMiles float64) ([]model.PointOfInterest, error) {
	members, err := g.rdb.GeoSearch(ctx, g.geoKey(kind), &redis.GeoSearchQuery{
		Longitude:  longitude,
		Latitude:   latitude,
		Radius:     radiusMiles,
		RadiusUnit: "mi",
		Sort:       "ASC",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("geosearch %s: %w", kind.Plural(), err)
	}

	out := make([]model.PointOfInterest, 0, len(members))
	if len(members) == 0 {
		return out, nil
	}

	records, err := g.rdb.HMGet(ctx, g.dataKey(kind), members...).Result()
	if err != nil {
		return nil, fmt.Errorf("load %s records: %w", kind.Plural(), err)
	}

	for i, rec := range records {
		raw, ok := rec.(string)
		if !ok {
			log.Warn().Str("kind", string(kind)).Str("member", members[i]).Msg("geo member without record")
			continue
		}
		var p model.PointOfInterest
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("decode place %s: %w", members[i], err)
		}
		p.ID, _ = strconv.Atoi(members[i])
		// redis stores positions as 52-bit geohashes; recheck against the exact coordinates
		if !spatial.WithinMiles(latitude, longitude, p.Latitude, p.Longitude, radiusMiles) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
