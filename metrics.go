package main

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/snehendu098/ghost/snverify/pkg/starknet"
)

// Metrics contains all Prometheus metrics for a run
type Metrics struct {
	// Node request metrics
	RPCRequests *prometheus.CounterVec
	RPCDuration *prometheus.HistogramVec

	// Signing metrics
	SignaturesTotal prometheus.Counter

	// Account validation metrics
	Validations *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics initializes Prometheus metrics on a private registry
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.NewRegistry())
}

// NewMetricsWithRegistry initializes and registers Prometheus metrics with a custom registry
func NewMetricsWithRegistry(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		RPCRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "snverify_rpc_requests_total",
				Help: "The total number of Starknet JSON-RPC requests",
			},
			[]string{"method", "status"},
		),
		RPCDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "snverify_rpc_request_duration_seconds",
				Help:    "Duration of Starknet JSON-RPC requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		SignaturesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "snverify_signatures_total",
			Help: "The total number of message signatures produced",
		}),
		Validations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "snverify_validations_total",
				Help: "Account signature validations by outcome",
			},
			[]string{"result"},
		),
		gatherer: registry,
	}
}

// ObserveRPC records a node request. It satisfies starknet.Observer.
func (m *Metrics) ObserveRPC(method string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.RPCRequests.WithLabelValues(method, status).Inc()
	m.RPCDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// ObserveValidation records the outcome of an is_valid_signature call.
func (m *Metrics) ObserveValidation(err error) {
	result := "valid"
	switch {
	case err == nil:
	case errors.Is(err, starknet.ErrSignatureRejected):
		result = "rejected"
	default:
		result = "error"
	}
	m.Validations.WithLabelValues(result).Inc()
}

// WriteTextfile dumps every metric in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.gatherer)
}
