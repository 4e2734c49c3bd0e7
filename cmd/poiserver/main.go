package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/nearby/internal/config"
	"github.com/Nixie-Tech-LLC/nearby/internal/db"
	"github.com/Nixie-Tech-LLC/nearby/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/nearby/internal/logging"
	"github.com/Nixie-Tech-LLC/nearby/internal/observability"
)

func main() {
	cfg, err := config.LoadPlaces()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Setup(cfg.Environment, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// initialize PostgreSQL
	conn, err := db.Connect(ctx, cfg.DatabaseURL, db.DefaultConnectOptions)
	if err != nil {
		log.Fatal().Err(err).Msg("db init")
	}
	defer conn.Close()

	// run pending migrations
	applied, err := db.RunMigrations(ctx, conn, cfg.MigrationsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}
	log.Info().Strs("applied", applied).Msg("migrations up to date")

	store := db.NewStore(conn)

	if cfg.SeedPath != "" {
		places, err := db.ReadSeedFile(cfg.SeedPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.SeedPath).Msg("failed to read seed file")
		}
		inserted, err := store.InsertPlaces(ctx, places)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to seed places")
		}
		log.Info().Int("read", len(places)).Int("inserted", inserted).Msg("seed applied")
	}

	finder, closeFinder, err := InitFinder(ctx, cfg, store)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Backend).Msg("failed to initialize lookup backend")
	}
	defer closeFinder()

	metrics, err := observability.NewPlacesCollector(nil, cfg.Backend)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())
	RegisterRoutes(r, cfg.Backend, finder, metrics)

	srv := &http.Server{Addr: cfg.ServerAddress, Handler: r}
	go func() {
		log.Info().Str("address", cfg.ServerAddress).Str("backend", cfg.Backend).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
