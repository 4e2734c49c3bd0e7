package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/nearby/internal/db"
	"github.com/Nixie-Tech-LLC/nearby/internal/http/api"
	placesapi "github.com/Nixie-Tech-LLC/nearby/internal/http/api/places/endpoints"
	"github.com/Nixie-Tech-LLC/nearby/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/nearby/internal/observability"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, backend string, finder db.PlaceFinder, metrics *observability.PlacesCollector) {
	r.Use(middleware.CORS())

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api",
	},
		placesapi.PlacesModule(finder, metrics),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": backend})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}
