// Package metrics exposes Prometheus collectors for catalog synchronization.
package metrics

import (
	"time"

	"movie-catalog/internal/live"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeNoData  = "no_data"
)

var (
	fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalog",
		Name:      "fetch_total",
		Help:      "Catalog page fetches by category and outcome.",
	}, []string{"category", "outcome"})

	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "catalog",
		Name:      "fetch_duration_seconds",
		Help:      "Time spent fetching and storing one catalog page.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"category"})

	moviesStored = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalog",
		Name:      "movies_stored_total",
		Help:      "Movies upserted into the local store by category.",
	}, []string{"category"})
)

// ObserveFetch records one LoadMore outcome.
func ObserveFetch(category, outcome string, stored int, elapsed time.Duration) {
	fetchTotal.WithLabelValues(category, outcome).Inc()
	fetchDuration.WithLabelValues(category).Observe(elapsed.Seconds())
	if stored > 0 {
		moviesStored.WithLabelValues(category).Add(float64(stored))
	}
}

// RegisterSubscriberGauge publishes the number of live query observers.
func RegisterSubscriberGauge(reg prometheus.Registerer, tracker *live.Tracker) error {
	return reg.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "catalog",
		Name:      "stream_subscribers",
		Help:      "Active live query subscriptions.",
	}, func() float64 {
		return float64(tracker.Observers())
	}))
}
