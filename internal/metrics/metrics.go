// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the application metrics. It implements core.MetricsRecorder.
type Collector struct {
	quoteSubmissions *prometheus.CounterVec
	contentWrites    prometheus.Counter
	roleDenials      prometheus.Counter
	httpRequests     *prometheus.CounterVec
	httpLatency      *prometheus.HistogramVec
	rateLimited      prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		quoteSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "site_quote_submissions_total",
			Help: "Quote request submissions by outcome.",
		}, []string{"outcome"}),
		contentWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "site_content_writes_total",
			Help: "Successful homepage content writes.",
		}),
		roleDenials: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "site_admin_denials_total",
			Help: "Requests denied by the admin role check.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "site_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "site_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "site_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
	}

	reg.MustRegister(
		c.quoteSubmissions,
		c.contentWrites,
		c.roleDenials,
		c.httpRequests,
		c.httpLatency,
		c.rateLimited,
	)
	return c
}

func (c *Collector) QuoteSubmitted(outcome string) {
	c.quoteSubmissions.WithLabelValues(outcome).Inc()
}

func (c *Collector) ContentWritten() {
	c.contentWrites.Inc()
}

func (c *Collector) RoleDenied() {
	c.roleDenials.Inc()
}

// RecordRequest records one served HTTP request.
func (c *Collector) RecordRequest(method, route string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRateLimited records a request rejected with 429.
func (c *Collector) RecordRateLimited() {
	c.rateLimited.Inc()
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
