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

	"github.com/Nixie-Tech-LLC/nearby/internal/assets"
	"github.com/Nixie-Tech-LLC/nearby/internal/config"
	screenapi "github.com/Nixie-Tech-LLC/nearby/internal/http/api/screen/endpoints"
	"github.com/Nixie-Tech-LLC/nearby/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/nearby/internal/location"
	"github.com/Nixie-Tech-LLC/nearby/internal/logging"
	"github.com/Nixie-Tech-LLC/nearby/internal/model"
	"github.com/Nixie-Tech-LLC/nearby/internal/mqtt"
	"github.com/Nixie-Tech-LLC/nearby/internal/observability"
	"github.com/Nixie-Tech-LLC/nearby/internal/poi"
	"github.com/Nixie-Tech-LLC/nearby/internal/screen"
)

func main() {
	cfg, err := config.LoadScreen()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Setup(cfg.Environment, cfg.LogLevel)

	metrics, err := observability.NewScreenCollector(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}

	icons := assets.NewRegistry()
	if err := icons.Publish(InitStorage(cfg.Assets)); err != nil {
		log.Fatal().Err(err).Msg("failed to publish marker icons")
	}

	fetcher, err := poi.NewClient(cfg.PlacesBaseURL,
		poi.WithPath(model.KindMasjid, cfg.MasjidPath),
		poi.WithPath(model.KindRestaurant, cfg.RestaurantPath),
		poi.WithHTTPClient(&http.Client{Timeout: cfg.PlacesTimeout}),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid places endpoint")
	}

	locator, err := newLocator(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid location source")
	}

	hub := screenapi.NewHub()
	renderers := []screen.Renderer{screen.RendererFunc(logFrame), hub}
	if cfg.MQTTBrokerURL != "" {
		client, err := mqtt.Connect(cfg.MQTTBrokerURL, "nearby-"+cfg.ScreenID, cfg.MQTTUsername, cfg.MQTTPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to MQTT broker")
		}
		publisher := mqtt.NewPublisher(client, cfg.ScreenID)
		defer publisher.Close()
		renderers = append(renderers, publisher)
		log.Info().Str("topic", mqtt.Topic(cfg.ScreenID)).Msg("publishing frames over MQTT")
	}

	s := screen.New(screen.Options{
		Permissions: location.ConfigPermissions{Granted: cfg.LocationGranted},
		Locator:     locator,
		Fetcher:     fetcher,
		Renderer:    screen.MultiRenderer(renderers...),
		Icons:       icons,
		Metrics:     metrics,
	})
	hub.Attach(s)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// the screen starts acquiring its location as soon as it is shown
	go func() {
		if err := s.AcquireLocation(ctx); err != nil {
			log.Warn().Err(err).Msg("initial location acquisition failed")
		}
	}()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())
	RegisterRoutes(r, cfg, s, hub, metrics)

	srv := &http.Server{Addr: cfg.ServerAddress, Handler: r}
	go func() {
		log.Info().Str("address", cfg.ServerAddress).Str("screen_id", cfg.ScreenID).Msg("listening")
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

func newLocator(cfg *config.Screen) (screen.Geolocator, error) {
	if cfg.LocationSource == "ip" {
		return location.NewIPLocator(cfg.IPLookupURL), nil
	}
	if !cfg.HasFixedPosition {
		return &location.StaticLocator{}, nil
	}
	return location.NewStaticLocator(cfg.Latitude, cfg.Longitude)
}

func logFrame(ctx context.Context, frame model.Frame) error {
	log.Debug().
		Str("status", string(frame.Status)).
		Int("markers", len(frame.Markers)).
		Int("alerts", len(frame.Alerts)).
		Float64("radius_miles", frame.RadiusMiles).
		Msg("frame rendered")
	return nil
}
