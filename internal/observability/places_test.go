package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveLookup(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewPlacesCollector(reg, "postgres")
	require.NoError(t, err)

	c.ObserveLookup("masjid", 3, nil, 10*time.Millisecond)
	c.ObserveLookup("masjid", 0, errors.New("timeout"), time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Lookups.WithLabelValues("masjid", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Lookups.WithLabelValues("masjid", OutcomeError)))
	assert.Equal(t, 1, testutil.CollectAndCount(c.Results))
}

func TestNilPlacesCollectorIsSafe(t *testing.T) {
	var c *PlacesCollector
	assert.NotPanics(t, func() { c.ObserveLookup("restaurant", 1, nil, time.Millisecond) })
	assert.NotNil(t, c.Handler())
}
