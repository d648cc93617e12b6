// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hppkit_http_requests_total",
		Help: "Total number of HTTP requests processed",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hppkit_http_request_duration_seconds",
		Help:    "HTTP request latencies in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	HTTPInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hppkit_http_inflight_requests",
		Help: "Number of HTTP requests currently being served",
	})

	// HPPRecalculations counts base-cost recomputations after cost line writes.
	HPPRecalculations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hppkit_hpp_recalculations_total",
		Help: "Total number of HPP recomputations",
	}, []string{"kind"})

	// PriceChainMutations counts price schema writes by operation.
	PriceChainMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hppkit_price_chain_mutations_total",
		Help: "Total number of price schema mutations",
	}, []string{"kind", "op"})

	SimulationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hppkit_simulations_created_total",
		Help: "Total number of pricing simulations stored",
	})

	SimulationsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hppkit_simulations_applied_total",
		Help: "Total number of pricing simulations applied to a product",
	})

	PriceCardCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hppkit_price_card_cache_total",
		Help: "Price card cache lookups by result",
	}, []string{"result"})

	ChainLockFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hppkit_chain_lock_fallbacks_total",
		Help: "Price chain mutations that proceeded without the distributed lock",
	})
)
