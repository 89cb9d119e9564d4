// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the orchestrator.
//
// Metrics cover the intelligence operations (wander, validate, plan,
// discover_context, answer_context): request counts by outcome, operation
// latency, and how often a calibrated forecast was actually available
// during validation. Exposed on /metrics for Prometheus scraping.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "commandcenter"

const intelligenceSubsystem = "intelligence"

// IntelligenceMetrics holds all Prometheus metrics for intelligence
// operations. Initialize once at startup via InitMetrics().
type IntelligenceMetrics struct {
	// RequestsTotal counts intelligence requests by operation and status.
	// Labels: operation (wander, validate, plan, discover_context,
	// answer_context), status (success, error)
	RequestsTotal *prometheus.CounterVec

	// DurationSeconds measures end-to-end operation latency, external
	// calls included.
	// Labels: operation
	DurationSeconds *prometheus.HistogramVec

	// ErrorsTotal counts failures by operation and error kind.
	// Labels: operation, error_code (not_found, parse_error, upstream_error)
	ErrorsTotal *prometheus.CounterVec

	// ForecastAvailability counts validate runs by whether a calibrated
	// estimate was obtained.
	// Labels: available (true, false)
	ForecastAvailability *prometheus.CounterVec
}

// DefaultMetrics is the singleton instance of IntelligenceMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *IntelligenceMetrics

// InitMetrics creates and registers all Prometheus metrics. Call once at
// application startup; a second call panics on duplicate registration.
func InitMetrics() *IntelligenceMetrics {
	DefaultMetrics = &IntelligenceMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: intelligenceSubsystem,
				Name:      "requests_total",
				Help:      "Total intelligence requests by operation and status",
			},
			[]string{"operation", "status"},
		),

		DurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: intelligenceSubsystem,
				Name:      "duration_seconds",
				Help:      "End-to-end intelligence operation latency in seconds",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"operation"},
		),

		ErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: intelligenceSubsystem,
				Name:      "errors_total",
				Help:      "Total intelligence failures by operation and error kind",
			},
			[]string{"operation", "error_code"},
		),

		ForecastAvailability: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: intelligenceSubsystem,
				Name:      "forecast_availability_total",
				Help:      "Validate runs by calibrated forecast availability",
			},
			[]string{"available"},
		),
	}
	return DefaultMetrics
}

// Error codes for ErrorsTotal.
const (
	ErrCodeNotFound = "not_found"
	ErrCodeParse    = "parse_error"
	ErrCodeUpstream = "upstream_error"
)

// ObserveRequest records one completed operation. Safe to call with a nil
// receiver so handlers work when metrics are not initialized (tests).
func (m *IntelligenceMetrics) ObserveRequest(operation, status string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(operation, status).Inc()
	m.DurationSeconds.WithLabelValues(operation).Observe(seconds)
}

// ObserveError records one failed operation by error kind.
func (m *IntelligenceMetrics) ObserveError(operation, errorCode string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(operation, errorCode).Inc()
}

// ObserveForecast records calibrated-forecast availability for one
// validate run.
func (m *IntelligenceMetrics) ObserveForecast(available bool) {
	if m == nil {
		return
	}
	label := "false"
	if available {
		label = "true"
	}
	m.ForecastAvailability.WithLabelValues(label).Inc()
}
