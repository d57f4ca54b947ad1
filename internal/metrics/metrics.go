// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Metrics struct {
	Registry *prometheus.Registry

	// HTTP
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Favorites
	FavoritesSaved        prometheus.Counter
	FavoritesSaveFailures prometheus.Counter
	FavoritesDeleted      *prometheus.CounterVec

	// Catalog
	PlaceholdersCreated prometheus.Counter
	PitchersImported    prometheus.Counter
}

// New registers every collector on a fresh registry, so separate instances
// (one per test server) never collide.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		Registry: reg,
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"method", "route"},
		),
		FavoritesSaved: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "favorites_saved_total",
				Help: "Favorites created by single adds and bulk saves",
			},
		),
		FavoritesSaveFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "favorites_save_failures_total",
				Help: "Names in bulk saves that produced no favorite",
			},
		),
		FavoritesDeleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "favorites_deleted_total",
				Help: "Favorites deleted, by deletion mode",
			},
			[]string{"mode"},
		),
		PlaceholdersCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pitchers_placeholder_created_total",
				Help: "Placeholder pitchers created by bulk saves",
			},
		),
		PitchersImported: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pitchers_imported_total",
				Help: "Pitchers created by the feed loader",
			},
		),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.FavoritesSaved,
		m.FavoritesSaveFailures,
		m.FavoritesDeleted,
		m.PlaceholdersCreated,
		m.PitchersImported,
	)

	return m
}

// Deletion modes for FavoritesDeleted.
const (
	DeleteModeID    = "id"
	DeleteModeName  = "name"
	DeleteModeClear = "clear"
	DeleteModeBulk  = "bulk_replace"
)
