package observability

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// ScreenCollector bundles Prometheus metrics for the location screen. All
// methods are safe on a nil receiver so callers can run without metrics.
type ScreenCollector struct {
	gatherer prometheus.Gatherer

	Fetches        *prometheus.CounterVec
	FetchDurations *prometheus.HistogramVec
	StaleResponses *prometheus.CounterVec
	Alerts         *prometheus.CounterVec
	Locates        *prometheus.CounterVec
	RadiusMiles    prometheus.Gauge
}

// NewScreenCollector registers the screen metrics against reg, defaulting to
// the global Prometheus registry when nil.
func NewScreenCollector(reg prometheus.Registerer) (*ScreenCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	fetches, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "poi_fetches_total",
		Help: "Point-of-interest fetches, labeled by kind and outcome.",
	}, []string{"kind", "outcome"}), "poi_fetches_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "poi_fetch_duration_seconds",
		Help:    "Point-of-interest fetch latency in seconds.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
	}, []string{"kind"}), "poi_fetch_duration_seconds")
	if err != nil {
		return nil, err
	}

	stale, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "poi_stale_responses_total",
		Help: "Fetch responses dropped because a newer request for the same kind was issued.",
	}, []string{"kind"}), "poi_stale_responses_total")
	if err != nil {
		return nil, err
	}

	alerts, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "screen_alerts_total",
		Help: "User-visible fetch failure alerts raised, labeled by kind.",
	}, []string{"kind"}), "screen_alerts_total")
	if err != nil {
		return nil, err
	}

	locates, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "screen_locates_total",
		Help: "Location acquisitions, labeled by result (ready, permission_denied, location_unavailable).",
	}, []string{"result"}), "screen_locates_total")
	if err != nil {
		return nil, err
	}

	radius, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "screen_radius_miles",
		Help: "Current search radius in miles.",
	}), "screen_radius_miles")
	if err != nil {
		return nil, err
	}

	return &ScreenCollector{
		gatherer:       gatherer,
		Fetches:        fetches,
		FetchDurations: durations,
		StaleResponses: stale,
		Alerts:         alerts,
		Locates:        locates,
		RadiusMiles:    radius,
	}, nil
}

// ObserveFetch records one completed fetch.
func (c *ScreenCollector) ObserveFetch(kind string, err error, elapsed time.Duration) {
	if c == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	c.Fetches.WithLabelValues(kind, outcome).Inc()
	c.FetchDurations.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (c *ScreenCollector) StaleResponse(kind string) {
	if c == nil {
		return
	}
	c.StaleResponses.WithLabelValues(kind).Inc()
}

func (c *ScreenCollector) AlertRaised(kind string) {
	if c == nil {
		return
	}
	c.Alerts.WithLabelValues(kind).Inc()
}

func (c *ScreenCollector) Located(result string) {
	if c == nil {
		return
	}
	c.Locates.WithLabelValues(result).Inc()
}

func (c *ScreenCollector) SetRadius(miles float64) {
	if c == nil {
		return
	}
	c.RadiusMiles.Set(miles)
}

// Handler exposes a ready-to-use /metrics handler.
func (c *ScreenCollector) Handler() http.Handler {
	if c == nil || c.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
