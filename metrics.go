package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	upstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "intervals_mcp",
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Requests sent to the Intervals.icu API by method and outcome.",
	}, []string{"method", "outcome"})

	upstreamDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "intervals_mcp",
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Latency of Intervals.icu API requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	toolCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "intervals_mcp",
		Subsystem: "tools",
		Name:      "calls_total",
		Help:      "Tool invocations by tool name and outcome.",
	}, []string{"tool", "outcome"})

	toolDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "intervals_mcp",
		Subsystem: "tools",
		Name:      "call_duration_seconds",
		Help:      "Wall time spent handling a tool call.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"tool"})
)

func init() {
	prometheus.MustRegister(upstreamRequests, upstreamDuration, toolCalls, toolDuration)
}

// recordUpstreamRequest counts one gateway request. outcome is the HTTP
// status code or a failure class such as "transport_error".
func recordUpstreamRequest(method, outcome string, elapsed time.Duration) {
	upstreamRequests.WithLabelValues(method, outcome).Inc()
	if elapsed > 0 {
		upstreamDuration.WithLabelValues(method).Observe(elapsed.Seconds())
	}
}

func recordToolCall(tool string, isError bool, elapsed time.Duration) {
	outcome := "ok"
	if isError {
		outcome = "error"
	}
	toolCalls.WithLabelValues(tool, outcome).Inc()
	toolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}
