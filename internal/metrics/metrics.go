package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	activeRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Number of in-flight HTTP requests",
		},
	)

	cepLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cep_lookups_total",
			Help: "Total number of ViaCEP lookups by outcome",
		},
		[]string{"outcome"},
	)

	cepCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cep_cache_requests_total",
			Help: "Total number of CEP cache requests by result",
		},
		[]string{"result"},
	)

	customersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "customers_created_total",
			Help: "Total number of customers created",
		},
	)
)

// ObserveRequest records a finished HTTP request
func ObserveRequest(method, route, status string, seconds float64) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// RequestStarted and RequestFinished track in-flight requests
func RequestStarted()  { activeRequests.Inc() }
func RequestFinished() { activeRequests.Dec() }

// RecordCEPLookup counts a ViaCEP call ("ok" or "error")
func RecordCEPLookup(outcome string) {
	cepLookups.WithLabelValues(outcome).Inc()
}

// RecordCacheResult counts a cache "hit", "miss" or "error"
func RecordCacheResult(result string) {
	cepCache.WithLabelValues(result).Inc()
}

// RecordCustomerCreated counts a persisted customer
func RecordCustomerCreated() {
	customersCreated.Inc()
}
