package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/klabast/wb-services/dk-days/internal/stay"
)

var (
	ComputeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dkdays_compute_total",
		Help: "Window computations by result",
	}, []string{"result"})
	ComputeDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dkdays_compute_duration_ms",
		Help:    "Window computation duration in milliseconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 50},
	})
	ToggleTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dkdays_toggle_total",
		Help: "Day toggles by resulting state",
	}, []string{"state"})
	ImportRowsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dkdays_import_rows_total",
		Help: "Rows merged from CSV imports",
	})
	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dkdays_active_sessions",
		Help: "Sessions currently held in memory",
	})
)

func init() {
	prometheus.MustRegister(ComputeTotal)
	prometheus.MustRegister(ComputeDurationMs)
	prometheus.MustRegister(ToggleTotal)
	prometheus.MustRegister(ImportRowsTotal)
	prometheus.MustRegister(ActiveSessions)
}

// MetricsHandler exposes the registered metrics for scraping
func MetricsHandler() http.Handler { return promhttp.Handler() }

// ComputeRange runs stay.Compute and records its outcome
func ComputeRange(cfg stay.WindowConfig, presence *stay.PresenceSet, start, end time.Time) ([]stay.DayRecord, error) {
	began := time.Now()
	records, err := stay.Compute(presence, cfg, start, end)
	ComputeDurationMs.Observe(float64(time.Since(began).Microseconds()) / 1000)
	ComputeTotal.WithLabelValues(computeResult(err)).Inc()
	return records, err
}

func computeResult(err error) string {
	var rangeErr *stay.InvalidRangeError
	var cfgErr *stay.InvalidConfigError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &rangeErr):
		return "invalid_range"
	case errors.As(err, &cfgErr):
		return "invalid_config"
	default:
		return "error"
	}
}
