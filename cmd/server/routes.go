package main

import (
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/nearby/internal/config"
	"github.com/Nixie-Tech-LLC/nearby/internal/http/api"
	screenapi "github.com/Nixie-Tech-LLC/nearby/internal/http/api/screen/endpoints"
	"github.com/Nixie-Tech-LLC/nearby/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/nearby/internal/observability"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, cfg *config.Screen, screen screenapi.LocationScreen, hub *screenapi.Hub, metrics *observability.ScreenCollector) {
	r.Use(middleware.CORS())

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api",
	},
		screenapi.ScreenModule(screen),
		screenapi.StreamModule(hub),
	)

	api.MountGroup(r, api.GroupConfig{}, screenapi.HealthModule(screen))

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// icons published to local storage are served from here
	if !cfg.Assets.UseSpaces {
		r.Static(cfg.Assets.PublicBaseURL, cfg.Assets.LocalDir)
	}
}
