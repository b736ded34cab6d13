package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counter labels used across the service:
//
//	app_requests_total, downloads_allowed_total, downloads_denied_total,
//	downloads_recorded_total, uploads_total, products_created_total
func NewCounter() *prometheus.CounterVec {
	return promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "designmarket",
			Name:      "general_counters",
		},
		[]string{"result"})
}
