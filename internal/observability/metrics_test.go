package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveFetchCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewScreenCollector(reg)
	require.NoError(t, err)

	c.ObserveFetch("masjid", nil, 20*time.Millisecond)
	c.ObserveFetch("masjid", errors.New("boom"), 5*time.Millisecond)
	c.ObserveFetch("restaurant", nil, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Fetches.WithLabelValues("masjid", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Fetches.WithLabelValues("masjid", OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Fetches.WithLabelValues("restaurant", OutcomeOK)))
}

func TestCollectorGaugesAndCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewScreenCollector(reg)
	require.NoError(t, err)

	c.SetRadius(15)
	c.StaleResponse("restaurant")
	c.AlertRaised("masjid")
	c.Located("ready")

	assert.Equal(t, 15.0, testutil.ToFloat64(c.RadiusMiles))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.StaleResponses.WithLabelValues("restaurant")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Alerts.WithLabelValues("masjid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Locates.WithLabelValues("ready")))
}

func TestNewScreenCollectorReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewScreenCollector(reg)
	require.NoError(t, err)
	second, err := NewScreenCollector(reg)
	require.NoError(t, err)

	first.AlertRaised("masjid")
	assert.Equal(t, 1.0, testutil.ToFloat64(second.Alerts.WithLabelValues("masjid")))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *ScreenCollector
	assert.NotPanics(t, func() {
		c.ObserveFetch("masjid", nil, time.Second)
		c.StaleResponse("masjid")
		c.AlertRaised("masjid")
		c.Located("ready")
		c.SetRadius(10)
	})
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewScreenCollector(reg)
	require.NoError(t, err)
	c.SetRadius(10)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "screen_radius_miles 10"))
}
