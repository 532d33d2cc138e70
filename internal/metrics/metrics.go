// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	BetsPlaced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bets_placed_total",
			Help: "Bets accepted, by bet type",
		},
		[]string{"type"},
	)

	BetRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bet_limit_rejections_total",
			Help: "Bets refused by the limit validator, by rejection kind",
		},
		[]string{"kind"},
	)

	RiskAssessments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_assessments_total",
			Help: "Risk analyses computed, by resulting tier",
		},
		[]string{"tier"},
	)

	EventPublishFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bet_event_publish_failures_total",
			Help: "Bet events that could not be delivered",
		},
	)
)

var once sync.Once

// Init registers every collector with the default registry; later calls are no-ops
func Init() {
	once.Do(func() {
		prometheus.MustRegister(HTTPRequests)
		prometheus.MustRegister(HTTPDuration)
		prometheus.MustRegister(BetsPlaced)
		prometheus.MustRegister(BetRejections)
		prometheus.MustRegister(RiskAssessments)
		prometheus.MustRegister(EventPublishFailures)
	})
}
