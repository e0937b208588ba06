package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the Prometheus metrics of the reconcilers
type Metrics struct {
	registry *prometheus.Registry

	// Reconcile operation metrics
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	OperationErrors   *prometheus.CounterVec

	// AWS API metrics
	AWSAPICallsTotal   *prometheus.CounterVec
	AWSAPICallDuration *prometheus.HistogramVec
	AWSAPIErrors       *prometheus.CounterVec
}

// NewMetrics creates the metrics on a private registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		OperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconcile_operations_total",
				Help: "Total number of reconcile operations by outcome",
			},
			[]string{"operation", "outcome"},
		),

		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reconcile_duration_seconds",
				Help:    "Duration of reconcile operations in seconds",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
			[]string{"operation"},
		),

		OperationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconcile_errors_total",
				Help: "Total number of failed reconcile operations by error category",
			},
			[]string{"operation", "error_category"},
		),

		AWSAPICallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aws_api_calls_total",
				Help: "Total number of AWS API calls",
			},
			[]string{"service", "operation", "status"},
		),

		AWSAPICallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aws_api_call_duration_seconds",
				Help:    "Duration of AWS API calls in seconds",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
			},
			[]string{"service", "operation"},
		),

		AWSAPIErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aws_api_errors_total",
				Help: "Total number of AWS API errors by error code",
			},
			[]string{"service", "operation", "code"},
		),
	}
}

// Registry returns the registry holding the metrics
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordOperation records a finished reconcile operation
func (m *Metrics) RecordOperation(operation, outcome string, duration time.Duration) {
	m.OperationsTotal.WithLabelValues(operation, outcome).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordOperationError records a failed reconcile operation
func (m *Metrics) RecordOperationError(operation, category string) {
	m.OperationErrors.WithLabelValues(operation, category).Inc()
}

// RecordAWSAPICall records an AWS API call
func (m *Metrics) RecordAWSAPICall(service, operation, status string, duration time.Duration) {
	m.AWSAPICallsTotal.WithLabelValues(service, operation, status).Inc()
	m.AWSAPICallDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// RecordAWSAPIError records an AWS API error. An empty code is recorded as "unknown".
func (m *Metrics) RecordAWSAPIError(service, operation, code string) {
	if code == "" {
		code = "unknown"
	}
	m.AWSAPIErrors.WithLabelValues(service, operation, code).Inc()
}

// Push sends the metrics to a Prometheus Pushgateway, grouped by job
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	err := push.New(url, job).
		Gatherer(m.registry).
		Grouping("source", "lambda").
		AddContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}
