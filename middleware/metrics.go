// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "quickly_ask"

// Metrics holds the HTTP and domain counters of the API
type Metrics struct {
	registry *prometheus.Registry

	// Labels: method, route, status
	RequestsTotal *prometheus.CounterVec
	// Labels: method, route
	RequestDuration *prometheus.HistogramVec

	// Writes done by questionnaire create/update.
	// Labels: entity (question, option), op (create, update, delete, skip)
	TreeMutationsTotal *prometheus.CounterVec
	// Labels: outcome (recorded, rejected)
	AnswersTotal *prometheus.CounterVec
}

// NewMetrics registers all collectors on a fresh registry so that several
// routers (as in tests) never collide on the global one.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		TreeMutationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "questionnaire",
			Name:      "tree_mutations_total",
			Help:      "Question and option writes performed by questionnaire create and update",
		}, []string{"entity", "op"}),
		AnswersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "answers",
			Name:      "items_total",
			Help:      "Submitted answer items by outcome",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.TreeMutationsTotal,
		m.AnswersTotal,
	)
	return m
}

// Registry exposes the registry for tests
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Instrument counts and times a handler under the given route label
func (m *Metrics) Instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := recordStatus(w)
		next(rec, r)

		m.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.code())).Inc()
		m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	}
}
