package metrics

import (
	"context"
	"testing"
	"time"

	"movie-catalog/internal/live"

	"github.com/prometheus/client_golang/prometheus"
)

func gaugeValue(t *testing.T, reg *prometheus.Registry) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	for _, f := range families {
		if f.GetName() == "catalog_stream_subscribers" {
			return f.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatal("subscriber gauge not registered")
	return 0
}

func TestSubscriberGaugeFollowsTracker(t *testing.T) {
	reg := prometheus.NewRegistry()
	tracker := live.NewTracker()
	if err := RegisterSubscriberGauge(reg, tracker); err != nil {
		t.Fatalf("RegisterSubscriberGauge failed: %v", err)
	}

	if got := gaugeValue(t, reg); got != 0 {
		t.Fatalf("expected 0 subscribers, got %v", got)
	}

	sub := live.Watch(context.Background(), tracker, []string{"movies"}, func(context.Context) (int, error) {
		return 1, nil
	})
	if got := gaugeValue(t, reg); got != 1 {
		t.Fatalf("expected 1 subscriber, got %v", got)
	}

	sub.Close()
	if got := gaugeValue(t, reg); got != 0 {
		t.Fatalf("expected 0 subscribers after close, got %v", got)
	}
}

func TestRegisterSubscriberGaugeTwiceFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	tracker := live.NewTracker()
	if err := RegisterSubscriberGauge(reg, tracker); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if err := RegisterSubscriberGauge(reg, tracker); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestObserveFetchAcceptsAllOutcomes(t *testing.T) {
	for _, outcome := range []string{OutcomeSuccess, OutcomeError, OutcomeNoData} {
		ObserveFetch("popular", outcome, 3, 10*time.Millisecond)
	}
}
