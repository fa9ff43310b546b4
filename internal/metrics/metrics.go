// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	commandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "steamscordbot",
		Name:      "commands_total",
		Help:      "Chat commands handled, by command and result",
	}, []string{"command", "result"})

	steamRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "steamscordbot",
		Subsystem: "steam",
		Name:      "requests_total",
		Help:      "Steam Web API requests, by endpoint and HTTP status (0 for transport errors)",
	}, []string{"endpoint", "status"})

	steamRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "steamscordbot",
		Subsystem: "steam",
		Name:      "request_duration_seconds",
		Help:      "Latency of Steam Web API requests",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"endpoint"})
)

func init() {
	prometheus.MustRegister(commandsTotal)
	prometheus.MustRegister(steamRequestsTotal)
	prometheus.MustRegister(steamRequestDuration)
}

// ObserveCommand counts one dispatched command. result is a short class such
// as "ok", "not_found" or "parse_error".
func ObserveCommand(command, result string) {
	commandsTotal.WithLabelValues(command, result).Inc()
}

// ObserveSteamRequest records one Steam Web API round trip.
func ObserveSteamRequest(endpoint, status string, elapsed time.Duration) {
	steamRequestsTotal.WithLabelValues(endpoint, status).Inc()
	steamRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}
