// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics exposes Prometheus instrumentation for the API.

Metrics live on a dedicated registry owned by the composition root instead of
the global default registry, so tests can build isolated instances.

Exported series:

  - laureate_http_requests_total{method,route,status}
  - laureate_http_request_duration_seconds{method,route}
  - laureate_nomination_persist_total{outcome}
  - laureate_nomination_review_total{action}
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Persist outcomes recorded by the nomination gateway.
const (
	OutcomeDurable  = "durable"
	OutcomeDegraded = "degraded"
	OutcomeFailed   = "failed"
)

// Registry bundles the collectors used by the API.
type Registry struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	persistTotal    *prometheus.CounterVec
	reviewTotal     *prometheus.CounterVec
}

// New creates a registry with runtime collectors and the application series.
func New() *Registry {
	registry := prometheus.NewRegistry()

	metrics := &Registry{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "laureate_http_requests_total",
			Help: "Total number of HTTP requests by route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "laureate_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		persistTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "laureate_nomination_persist_total",
			Help: "Nomination persist attempts by storage outcome.",
		}, []string{"outcome"}),
		reviewTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "laureate_nomination_review_total",
			Help: "Admin review actions applied to nominations.",
		}, []string{"action"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.requestsTotal,
		metrics.requestDuration,
		metrics.persistTotal,
		metrics.reviewTotal,
	)

	return metrics
}

// Handler serves the registry in the Prometheus exposition format.
func (metrics *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{Registry: metrics.registry})
}

// ObserveRequest matches [middleware.Observer].
func (metrics *Registry) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	metrics.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	metrics.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordPersist counts one gateway outcome (durable, degraded or failed).
func (metrics *Registry) RecordPersist(outcome string) {
	metrics.persistTotal.WithLabelValues(outcome).Inc()
}

// RecordReview counts one admin action such as "status:finalist" or "review:approved".
func (metrics *Registry) RecordReview(action string) {
	metrics.reviewTotal.WithLabelValues(action).Inc()
}

// PersistCounter exposes the persist counter for assertions.
func (metrics *Registry) PersistCounter(outcome string) prometheus.Counter {
	return metrics.persistTotal.WithLabelValues(outcome)
}
