// Package middleware contains the shared Gin middleware of the form backend.
//
// This file exposes the Prometheus instrumentation: generic HTTP traffic
// metrics plus a domain counter for submission outcomes. Label cardinality
// stays bounded: routes come from c.FullPath(), outcomes from the guard's
// fixed cause vocabulary.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// httpReqs counts requests by method, route path, and status code.
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// httpLat records request duration in seconds by method and route path.
	// Status is omitted to keep histogram cardinality low.
	httpLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// httpInflight gauges the number of requests currently being processed.
	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	// submissions counts form submissions by endpoint and outcome. Outcomes
	// are "accepted", the guard rejection causes (invalid_origin,
	// rate_limited, honeypot, captcha_missing, captcha_invalid,
	// captcha_unreachable), "invalid_fields", and "dispatch_failed".
	submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_submissions_total",
			Help: "Form submissions by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(httpReqs, httpLat, httpInflight, submissions)
}

// Metrics returns a Gin middleware instrumenting every request.
//
//	r.Use(middleware.Metrics())
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method

		httpReqs.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpLat.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// ObserveSubmission records the outcome of one form submission. Handlers
// call it exactly once per request that reaches the pipeline.
func ObserveSubmission(endpoint, outcome string) {
	submissions.WithLabelValues(endpoint, outcome).Inc()
}
