// Package metrics holds the Prometheus instruments the gateway exposes over
// /metrics. Instruments are package-level singletons registered against the
// default registry, mirroring how client_golang is used across the examples
// this module draws on.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FacilitatorRequestsTotal counts facilitator calls by operation and outcome.
	FacilitatorRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "x402_facilitator_requests_total",
		Help: "Total facilitator requests by operation and outcome.",
	}, []string{"op", "outcome"})

	// FacilitatorRequestDuration observes facilitator round-trip latency by operation.
	FacilitatorRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "x402_facilitator_request_duration_seconds",
		Help:    "Facilitator request duration in seconds by operation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	// VendorDeployTotal counts vendor Deploy calls by outcome.
	VendorDeployTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "x402_vendor_deploy_total",
		Help: "Total vendor deploy calls by outcome.",
	}, []string{"outcome"})

	// SettlementsTotal counts settlement attempts by outcome.
	SettlementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "x402_settlements_total",
		Help: "Total settlement attempts by outcome.",
	}, []string{"outcome"})
)
