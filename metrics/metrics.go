// Package metrics exposes prometheus instruments for the upload driver and the console API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/moyoez/zipconsole/types"
)

type UploadMetrics struct {
	registry *prometheus.Registry

	uploadTotal     *prometheus.CounterVec
	uploadDuration  prometheus.ObserverVec
	uploadInFlight  prometheus.Gauge
	rejectedTotal   prometheus.Counter
	requestTotal    *prometheus.CounterVec
	requestDuration prometheus.ObserverVec
}

func NewUploadMetrics(service string) *UploadMetrics {
	registry := prometheus.NewRegistry()

	uploadTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zipconsole",
			Subsystem: "upload",
			Name:      "archives_total",
			Help:      "Total uploaded archives by outcome status.",
		},
		[]string{"service", "status"},
	)
	uploadDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "zipconsole",
			Subsystem: "upload",
			Name:      "archive_duration_seconds",
			Help:      "Per-archive upload duration in seconds by outcome status.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service", "status"},
	)
	uploadInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "zipconsole",
			Subsystem: "upload",
			Name:      "archives_in_flight",
			Help:      "Number of archives currently being uploaded.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	rejectedTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "zipconsole",
			Subsystem: "queue",
			Name:      "rejected_files_total",
			Help:      "Files ignored at selection because they are not .zip archives.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zipconsole",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total console API requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "zipconsole",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Console API request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	registry.MustRegister(uploadTotal, uploadDuration, uploadInFlight, rejectedTotal, requestTotal, requestDuration)

	return &UploadMetrics{
		registry:        registry,
		uploadTotal:     uploadTotal.MustCurryWith(prometheus.Labels{"service": service}),
		uploadDuration:  uploadDuration.MustCurryWith(prometheus.Labels{"service": service}),
		uploadInFlight:  uploadInFlight,
		rejectedTotal:   rejectedTotal,
		requestTotal:    requestTotal.MustCurryWith(prometheus.Labels{"service": service}),
		requestDuration: requestDuration.MustCurryWith(prometheus.Labels{"service": service}),
	}
}

func (m *UploadMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *UploadMetrics) StartItem() {
	m.uploadInFlight.Inc()
}

func (m *UploadMetrics) FinishItem(duration time.Duration, status types.OutcomeStatus) {
	m.uploadInFlight.Dec()
	m.uploadTotal.WithLabelValues(string(status)).Inc()
	m.uploadDuration.WithLabelValues(string(status)).Observe(duration.Seconds())
}

func (m *UploadMetrics) ObserveRejected(n int) {
	if n <= 0 {
		return
	}
	m.rejectedTotal.Add(float64(n))
}

// GinMiddleware records request count and latency per matched route.
func (m *UploadMetrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.requestTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
