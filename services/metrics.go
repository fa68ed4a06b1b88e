package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// intentsHandled counts intents by kind and result (ok, not_found, error).
	intentsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kitchen_menu",
		Subsystem: "engine",
		Name:      "intents_total",
		Help:      "Intents handled by menu sessions",
	}, []string{"kind", "result"})

	// intentLatency measures queue wait plus handling time.
	intentLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "kitchen_menu",
		Subsystem: "engine",
		Name:      "intent_duration_seconds",
		Help:      "Time from dispatch to reply for an intent",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	}, []string{"kind"})

	// visibleItems is the size of the last computed visible sequence.
	visibleItems = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "kitchen_menu",
		Subsystem: "engine",
		Name:      "visible_items",
		Help:      "Visible items after each intent",
		Buckets:   prometheus.LinearBuckets(0, 5, 10),
	})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "kitchen_menu",
		Subsystem: "registry",
		Name:      "active_sessions",
		Help:      "Menu sessions currently held in memory",
	})

	journalFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kitchen_menu",
		Subsystem: "journal",
		Name:      "failures_total",
		Help:      "Intent journal writes that failed",
	})
)

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case isNotFound(err):
		return "not_found"
	default:
		return "error"
	}
}
