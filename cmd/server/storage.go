package main

import (
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/nearby/internal/config"
	"github.com/Nixie-Tech-LLC/nearby/internal/storage"
)

// InitStorage selects and returns the configured storage backend for marker icons
func InitStorage(cfg config.Assets) storage.Storage {
	if cfg.UseSpaces {
		spacesStorage, err := storage.NewSpacesStorage(
			cfg.SpacesEndpoint,
			cfg.SpacesRegion,
			cfg.SpacesBucket,
			cfg.SpacesCDNURL,
			cfg.SpacesAccessKey,
			cfg.SpacesSecretKey,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Spaces storage")
		}
		log.Info().Str("cdn", cfg.SpacesCDNURL).Msg("using DigitalOcean Spaces storage")
		return spacesStorage
	}

	local := storage.NewLocalStorage(cfg.LocalDir, cfg.PublicBaseURL)
	log.Info().Str("dir", cfg.LocalDir).Msg("using local file storage")
	return local
}
