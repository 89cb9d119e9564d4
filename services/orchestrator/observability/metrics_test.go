// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// newTestMetrics creates an IntelligenceMetrics instance with a custom
// registry. This avoids conflicts with the global Prometheus registry and
// allows parallel testing.
func newTestMetrics(t *testing.T) *IntelligenceMetrics {
	t.Helper()

	reg := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: intelligenceSubsystem,
			Name:      "requests_total",
			Help:      "Total intelligence requests by operation and status",
		},
		[]string{"operation", "status"},
	)

	durationSeconds := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: intelligenceSubsystem,
			Name:      "duration_seconds",
			Help:      "End-to-end intelligence operation latency in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"operation"},
	)

	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: intelligenceSubsystem,
			Name:      "errors_total",
			Help:      "Total intelligence failures by operation and error kind",
		},
		[]string{"operation", "error_code"},
	)

	forecastAvailability := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: intelligenceSubsystem,
			Name:      "forecast_availability_total",
			Help:      "Validate runs by calibrated forecast availability",
		},
		[]string{"available"},
	)

	reg.MustRegister(requestsTotal, durationSeconds, errorsTotal, forecastAvailability)

	return &IntelligenceMetrics{
		RequestsTotal:        requestsTotal,
		DurationSeconds:      durationSeconds,
		ErrorsTotal:          errorsTotal,
		ForecastAvailability: forecastAvailability,
	}
}

func TestObserveRequest(t *testing.T) {
	m := newTestMetrics(t)

	m.ObserveRequest("wander", "success", 1.2)
	m.ObserveRequest("wander", "success", 0.8)
	m.ObserveRequest("wander", "error", 0.1)

	success := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("wander", "success"))
	if success != 2 {
		t.Errorf("success count = %v, want 2", success)
	}
	errCount := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("wander", "error"))
	if errCount != 1 {
		t.Errorf("error count = %v, want 1", errCount)
	}
	if got := testutil.CollectAndCount(m.DurationSeconds); got != 1 {
		t.Errorf("duration series count = %d, want 1", got)
	}
}

func TestObserveError(t *testing.T) {
	m := newTestMetrics(t)

	m.ObserveError("validate", ErrCodeParse)
	m.ObserveError("validate", ErrCodeParse)
	m.ObserveError("validate", ErrCodeUpstream)

	parse := testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("validate", ErrCodeParse))
	if parse != 2 {
		t.Errorf("parse_error count = %v, want 2", parse)
	}
	upstream := testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("validate", ErrCodeUpstream))
	if upstream != 1 {
		t.Errorf("upstream_error count = %v, want 1", upstream)
	}
}

func TestObserveForecast(t *testing.T) {
	m := newTestMetrics(t)

	m.ObserveForecast(true)
	m.ObserveForecast(true)
	m.ObserveForecast(false)

	available := testutil.ToFloat64(m.ForecastAvailability.WithLabelValues("true"))
	if available != 2 {
		t.Errorf("available count = %v, want 2", available)
	}
	unavailable := testutil.ToFloat64(m.ForecastAvailability.WithLabelValues("false"))
	if unavailable != 1 {
		t.Errorf("unavailable count = %v, want 1", unavailable)
	}
}

// Handlers call through DefaultMetrics, which stays nil in unit tests.
// Every observe method must tolerate that.
func TestObserve_NilReceiver(t *testing.T) {
	var m *IntelligenceMetrics

	m.ObserveRequest("wander", "success", 1.0)
	m.ObserveError("wander", ErrCodeNotFound)
	m.ObserveForecast(true)
}
