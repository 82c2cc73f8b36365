package api

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "momu_api_requests_total",
		Help: "MOMU API calls by operation and outcome.",
	}, []string{"operation", "outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "momu_api_request_duration_seconds",
		Help:    "MOMU API call latency by operation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)

func observe(operation string, start time.Time, err error) {
	requestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	requestsTotal.WithLabelValues(operation, outcome(err)).Inc()
}

func outcome(err error) string {
	var transport *TransportError
	var authz *AuthorizationError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &transport):
		return "transport_error"
	case IsDataContract(err):
		return "data_contract_error"
	case errors.As(err, &authz):
		return "authorization_error"
	default:
		return "error"
	}
}
