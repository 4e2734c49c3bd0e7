package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/nearby/internal/config"
	screenapi "github.com/Nixie-Tech-LLC/nearby/internal/http/api/screen/endpoints"
	"github.com/Nixie-Tech-LLC/nearby/internal/location"
	"github.com/Nixie-Tech-LLC/nearby/internal/model"
	"github.com/Nixie-Tech-LLC/nearby/internal/observability"
	"github.com/Nixie-Tech-LLC/nearby/internal/screen"
)

type noPlaces struct{}

func (noPlaces) FetchPlaces(ctx context.Context, kind model.Kind, latitude, longitude, radiusMiles float64) ([]model.PointOfInterest, error) {
	return []model.PointOfInterest{}, nil
}

func TestRegisterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	metrics, err := observability.NewScreenCollector(prometheus.NewRegistry())
	require.NoError(t, err)

	locator, err := location.NewStaticLocator(41.8781, -87.6298)
	require.NoError(t, err)

	hub := screenapi.NewHub()
	s := screen.New(screen.Options{
		Permissions: location.ConfigPermissions{Granted: true},
		Locator:     locator,
		Fetcher:     noPlaces{},
		Renderer:    hub,
		Metrics:     metrics,
	})
	hub.Attach(s)
	require.NoError(t, s.AcquireLocation(context.Background()))

	cfg := &config.Screen{Assets: config.Assets{LocalDir: t.TempDir(), PublicBaseURL: "/assets"}}
	r := gin.New()
	RegisterRoutes(r, cfg, s, hub, metrics)

	for path, want := range map[string]int{
		"/healthz":               http.StatusOK,
		"/metrics":               http.StatusOK,
		"/api/screen":            http.StatusOK,
		"/api/screen/state":      http.StatusOK,
		"/assets/missing.svg":    http.StatusNotFound,
		"/api/unknown-route-xyz": http.StatusNotFound,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), "screen_locates_total")
}
