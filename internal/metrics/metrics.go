package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all the Prometheus metrics for the service.
type Metrics struct {
	SessionsSaved *prometheus.CounterVec
	Predictions   *prometheus.CounterVec
	AlertFailures *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
}

// NewMetrics creates all service metrics and registers them with the
// default registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers the metrics with an explicit registerer.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SessionsSaved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fraudtrack_sessions_saved_total",
				Help: "Total sessions ingested, by outcome",
			},
			[]string{"outcome"},
		),

		Predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fraudtrack_predictions_total",
				Help: "Total predict calls, by resulting label",
			},
			[]string{"label"},
		),

		AlertFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fraudtrack_alert_failures_total",
				Help: "Total failed alert dispatches, by channel",
			},
			[]string{"channel"},
		),

		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fraudtrack_http_request_duration_seconds",
				Help:    "HTTP request latency by endpoint and status",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint", "method", "status"},
		),
	}

	reg.MustRegister(
		m.SessionsSaved,
		m.Predictions,
		m.AlertFailures,
		m.HTTPDuration,
	)

	return m
}

// Middleware records request latency per route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.HTTPDuration.WithLabelValues(
			endpoint,
			c.Request.Method,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
