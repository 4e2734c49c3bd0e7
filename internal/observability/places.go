package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PlacesCollector counts radius lookups served by the points-of-interest service.
type PlacesCollector struct {
	gatherer prometheus.Gatherer

	Lookups         *prometheus.CounterVec
	LookupDurations *prometheus.HistogramVec
	Results         *prometheus.HistogramVec
}

func NewPlacesCollector(reg prometheus.Registerer, backend string) (*PlacesCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}
	labels := prometheus.Labels{"backend": backend}

	lookups, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "places_lookups_total",
		Help:        "Radius lookups, labeled by kind and outcome.",
		ConstLabels: labels,
	}, []string{"kind", "outcome"}), "places_lookups_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "places_lookup_duration_seconds",
		Help:        "Radius lookup latency in seconds.",
		ConstLabels: labels,
		Buckets:     prometheus.DefBuckets,
	}, []string{"kind"}), "places_lookup_duration_seconds")
	if err != nil {
		return nil, err
	}

	results, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "places_lookup_results",
		Help:        "Places returned per lookup.",
		ConstLabels: labels,
		Buckets:     []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
	}, []string{"kind"}), "places_lookup_results")
	if err != nil {
		return nil, err
	}

	return &PlacesCollector{
		gatherer:        gatherer,
		Lookups:         lookups,
		LookupDurations: durations,
		Results:         results,
	}, nil
}

func (c *PlacesCollector) ObserveLookup(kind string, count int, err error, elapsed time.Duration) {
	if c == nil {
		return
	}
	if err != nil {
		c.Lookups.WithLabelValues(kind, OutcomeError).Inc()
		return
	}
	c.Lookups.WithLabelValues(kind, OutcomeOK).Inc()
	c.LookupDurations.WithLabelValues(kind).Observe(elapsed.Seconds())
	c.Results.WithLabelValues(kind).Observe(float64(count))
}

func (c *PlacesCollector) Handler() http.Handler {
	if c == nil || c.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
