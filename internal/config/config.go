package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Screen holds settings for the screen server (cmd/server).
type Screen struct {
	Environment   string
	ServerAddress string
	LogLevel      zerolog.Level

	// points of interest endpoint
	PlacesBaseURL  string
	MasjidPath     string
	RestaurantPath string
	PlacesTimeout  time.Duration

	// location source: "static" or "ip"
	LocationSource   string
	LocationGranted  bool
	Latitude         float64
	Longitude        float64
	HasFixedPosition bool
	IPLookupURL      string

	ScreenID      string
	MQTTBrokerURL string
	MQTTUsername  string
	MQTTPassword  string

	Assets Assets
}

// Assets selects where marker icons are published.
type Assets struct {
	UseSpaces       bool
	LocalDir        string
	PublicBaseURL   string
	SpacesEndpoint  string
	SpacesRegion    string
	SpacesBucket    string
	SpacesCDNURL    string
	SpacesAccessKey string
	SpacesSecretKey string
}

// Places holds settings for the reference points-of-interest service (cmd/poiserver).
type Places struct {
	Environment    string
	ServerAddress  string
	LogLevel       zerolog.Level
	DatabaseURL    string
	MigrationsPath string
	SeedPath       string

	// finder backend: "postgres", "redis" or "elastic"
	Backend       string
	RedisAddress  string
	RedisUsername string
	RedisPassword string
	ElasticURL    string
	ElasticIndex  string
}

// loadDotenv reads an optional .env file; real environment variables win.
func loadDotenv() {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	_ = godotenv.Load(path)
}

// LoadScreen reads the screen server configuration from the environment.
func LoadScreen() (*Screen, error) {
	loadDotenv()

	level, err := logLevel()
	if err != nil {
		return nil, err
	}

	cfg := &Screen{
		Environment:    getenv("APP_ENV", "development"),
		ServerAddress:  getenv("SERVER_ADDRESS", ":8080"),
		LogLevel:       level,
		PlacesBaseURL:  os.Getenv("PLACES_BASE_URL"),
		MasjidPath:     getenv("PLACES_MASJID_PATH", "/api/masjids"),
		RestaurantPath: getenv("PLACES_RESTAURANT_PATH", "/api/restaurants"),
		LocationSource: strings.ToLower(getenv("LOCATION_SOURCE", "static")),
		IPLookupURL:    os.Getenv("IP_LOOKUP_URL"),
		ScreenID:       os.Getenv("SCREEN_ID"),
		MQTTBrokerURL:  os.Getenv("MQTT_BROKER_URL"),
		MQTTUsername:   os.Getenv("MQTT_USERNAME"),
		MQTTPassword:   os.Getenv("MQTT_PASSWORD"),
		Assets: Assets{
			UseSpaces:       os.Getenv("USE_SPACES") == "true",
			LocalDir:        getenv("ASSETS_DIR", "./assets"),
			PublicBaseURL:   getenv("ASSETS_BASE_URL", "/assets"),
			SpacesEndpoint:  os.Getenv("SPACES_ENDPOINT"),
			SpacesRegion:    os.Getenv("SPACES_REGION"),
			SpacesBucket:    os.Getenv("SPACES_BUCKET"),
			SpacesCDNURL:    os.Getenv("SPACES_CDN_URL"),
			SpacesAccessKey: os.Getenv("SPACES_ACCESS_KEY"),
			SpacesSecretKey: os.Getenv("SPACES_SECRET_KEY"),
		},
	}

	if cfg.PlacesBaseURL == "" {
		return nil, fmt.Errorf("PLACES_BASE_URL is required")
	}

	if cfg.PlacesTimeout, err = time.ParseDuration(getenv("PLACES_TIMEOUT", "15s")); err != nil {
		return nil, fmt.Errorf("invalid PLACES_TIMEOUT: %w", err)
	}

	if cfg.LocationGranted, err = strconv.ParseBool(getenv("LOCATION_PERMISSION_GRANTED", "true")); err != nil {
		return nil, fmt.Errorf("invalid LOCATION_PERMISSION_GRANTED: %w", err)
	}

	switch cfg.LocationSource {
	case "static":
		lat, lon := os.Getenv("LATITUDE"), os.Getenv("LONGITUDE")
		if lat != "" || lon != "" {
			if cfg.Latitude, err = strconv.ParseFloat(lat, 64); err != nil {
				return nil, fmt.Errorf("invalid LATITUDE: %w", err)
			}
			if cfg.Longitude, err = strconv.ParseFloat(lon, 64); err != nil {
				return nil, fmt.Errorf("invalid LONGITUDE: %w", err)
			}
			cfg.HasFixedPosition = true
		}
	case "ip":
	default:
		return nil, fmt.Errorf("LOCATION_SOURCE must be static or ip, got %q", cfg.LocationSource)
	}

	if cfg.ScreenID == "" {
		cfg.ScreenID = uuid.NewString()
	}

	if cfg.Assets.UseSpaces && (cfg.Assets.SpacesBucket == "" || cfg.Assets.SpacesEndpoint == "") {
		return nil, fmt.Errorf("SPACES_BUCKET and SPACES_ENDPOINT are required when USE_SPACES=true")
	}

	return cfg, nil
}

// LoadPlaces reads the points-of-interest service configuration from the environment.
func LoadPlaces() (*Places, error) {
	loadDotenv()

	level, err := logLevel()
	if err != nil {
		return nil, err
	}

	cfg := &Places{
		Environment:    getenv("APP_ENV", "development"),
		ServerAddress:  getenv("SERVER_ADDRESS", ":8081"),
		LogLevel:       level,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MigrationsPath: getenv("MIGRATIONS_PATH", "./migrations"),
		SeedPath:       os.Getenv("SEED_PATH"),
		Backend:        strings.ToLower(getenv("PLACES_BACKEND", "postgres")),
		RedisAddress:   getenv("REDIS_ADDRESS", "localhost:6379"),
		RedisUsername:  os.Getenv("REDIS_USERNAME"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		ElasticURL:     getenv("ELASTIC_URL", "http://localhost:9200"),
		ElasticIndex:   getenv("ELASTIC_INDEX", "places"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	switch cfg.Backend {
	case "postgres", "redis", "elastic":
	default:
		return nil, fmt.Errorf("PLACES_BACKEND must be postgres, redis or elastic, got %q", cfg.Backend)
	}

	return cfg, nil
}

func logLevel() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(getenv("LOG_LEVEL", "info")))
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return level, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
