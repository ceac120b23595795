// Package metrics exposes Prometheus instrumentation for the HTTP server
// and the few domain events worth counting.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route", "status"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Current number of in-flight HTTP requests",
		},
	)

	// Domain Metrics
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_login_attempts_total",
			Help: "Admin login attempts by result",
		},
		[]string{"result"}, // "success", "failure"
	)

	MediaUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_uploads_total",
			Help: "Cover image uploads by result",
		},
		[]string{"result"}, // "stored", "rejected", "store_error"
	)

	MediaUploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_upload_bytes",
			Help:    "Size of stored cover images in bytes",
			Buckets: prometheus.ExponentialBuckets(16<<10, 4, 6), // 16KiB .. 16MiB
		},
	)

	MediaOldDeleteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_old_delete_failures_total",
			Help: "Replaced images that could not be deleted",
		},
	)
)

// RecordHTTPRequest records one finished HTTP request
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	HTTPRequestsTotal.WithLabelValues(method, route, code).Inc()
	HTTPRequestDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
}

// RecordLogin records an admin login attempt
func RecordLogin(success bool) {
	if success {
		LoginAttempts.WithLabelValues("success").Inc()
	} else {
		LoginAttempts.WithLabelValues("failure").Inc()
	}
}

// RecordUpload records the outcome of an image upload
func RecordUpload(result string, size int) {
	MediaUploads.WithLabelValues(result).Inc()
	if result == "stored" {
		MediaUploadBytes.Observe(float64(size))
	}
}

// GinMiddleware instruments every request. Routes are labeled by their
// registered pattern so path parameters do not explode cardinality.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		HTTPActiveRequests.Inc()
		defer HTTPActiveRequests.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// Handler serves the Prometheus exposition format
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
