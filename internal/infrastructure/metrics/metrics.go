package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/avatarctic/content-board/internal/core/ports"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "The total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "The HTTP request latencies in seconds",
		},
		[]string{"method", "endpoint"},
	)

	cardMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_card_mutations_total",
			Help: "Card mutations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal)
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(cardMutations)
}

// RequestsTotal returns the HTTP request counter for middleware use
func RequestsTotal() *prometheus.CounterVec {
	return requestsTotal
}

// RequestDuration returns the HTTP latency histogram for middleware use
func RequestDuration() *prometheus.HistogramVec {
	return requestDuration
}

type boardMetrics struct {
	mutations *prometheus.CounterVec
}

// NewBoardMetrics records card mutations on the process-wide registry
func NewBoardMetrics() ports.BoardMetrics {
	return &boardMetrics{mutations: cardMutations}
}

// NewBoardMetricsWith records into a caller-owned counter, mainly for tests
func NewBoardMetricsWith(mutations *prometheus.CounterVec) ports.BoardMetrics {
	return &boardMetrics{mutations: mutations}
}

func (m *boardMetrics) CardMutation(operation, outcome string) {
	m.mutations.WithLabelValues(operation, outcome).Inc()
}
