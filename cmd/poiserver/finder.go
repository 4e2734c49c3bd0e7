package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/nearby/internal/config"
	"github.com/Nixie-Tech-LLC/nearby/internal/db"
	"github.com/Nixie-Tech-LLC/nearby/internal/model"
	"github.com/Nixie-Tech-LLC/nearby/internal/redis"
	"github.com/Nixie-Tech-LLC/nearby/internal/search"
)

// InitFinder returns the configured lookup backend. Postgres stays the source
// of truth; the redis and elastic backends are rebuilt from it at startup.
func InitFinder(ctx context.Context, cfg *config.Places, store db.Store) (db.PlaceFinder, func(), error) {
	switch cfg.Backend {
	case "redis":
		rdb, err := redis.Connect(ctx, cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			return nil, nil, err
		}
		index := redis.NewGeoIndex(rdb)
		for _, kind := range model.Kinds() {
			places, err := store.ListPlaces(ctx, kind)
			if err != nil {
				_ = rdb.Close()
				return nil, nil, fmt.Errorf("list %s: %w", kind.Plural(), err)
			}
			if err := index.Rebuild(ctx, kind, places); err != nil {
				_ = rdb.Close()
				return nil, nil, err
			}
		}
		return index, func() { _ = rdb.Close() }, nil

	case "elastic":
		index, err := search.NewIndex(cfg.ElasticURL, cfg.ElasticIndex)
		if err != nil {
			return nil, nil, err
		}
		if err := index.EnsureIndex(ctx); err != nil {
			return nil, nil, err
		}
		for _, kind := range model.Kinds() {
			places, err := store.ListPlaces(ctx, kind)
			if err != nil {
				return nil, nil, fmt.Errorf("list %s: %w", kind.Plural(), err)
			}
			if err := index.IndexPlaces(ctx, places); err != nil {
				return nil, nil, err
			}
		}
		return index, func() {}, nil
	}

	log.Info().Msg("serving lookups straight from postgres")
	return store, func() {}, nil
}
