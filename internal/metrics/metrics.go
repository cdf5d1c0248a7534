// Package metrics exposes process counters for `potd watch`.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "potd"

var (
	judgeRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "judge_requests_total",
			Help:      "Total number of judge API calls",
		},
		[]string{"method", "outcome"},
	)
	judgeRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "judge_request_duration_seconds",
			Help:      "Duration of judge API calls, including rate limiter wait",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)
	leaderboardSyncTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leaderboard_sync_total",
			Help:      "Leaderboard push attempts",
		},
		[]string{"outcome"},
	)
	selectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selections_total",
			Help:      "Daily selections served, by source",
		},
		[]string{"source"},
	)
	streakCurrent = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "streak_current",
		Help:      "Current streak length in days",
	})
	streakMax = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "streak_max",
		Help:      "Best streak length in days",
	})

	// Registry holds every potd collector plus the Go runtime collectors.
	Registry = prometheus.NewRegistry()
)

func init() {
	Registry.MustRegister(
		judgeRequestsTotal,
		judgeRequestDuration,
		leaderboardSyncTotal,
		selectionsTotal,
		streakCurrent,
		streakMax,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves Registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

// ObserveJudge records one judge API call.
func ObserveJudge(method string, err error, took time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	judgeRequestsTotal.WithLabelValues(method, outcome).Inc()
	judgeRequestDuration.WithLabelValues(method).Observe(took.Seconds())
}

// ObserveSync records a leaderboard push.
func ObserveSync(err error) {
	if err != nil {
		leaderboardSyncTotal.WithLabelValues("error").Inc()
		return
	}
	leaderboardSyncTotal.WithLabelValues("ok").Inc()
}

// ObserveSelection records whether a selection came from the ledger cache.
func ObserveSelection(cached bool) {
	if cached {
		selectionsTotal.WithLabelValues("cache").Inc()
		return
	}
	selectionsTotal.WithLabelValues("computed").Inc()
}

// SetStreak publishes the current streak values.
func SetStreak(count, max int) {
	streakCurrent.Set(float64(count))
	streakMax.Set(float64(max))
}
