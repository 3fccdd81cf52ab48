package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// 监督引擎业务指标
	EnforcementActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enforcement_actions_total",
			Help: "Enforcement actions logged, by trigger and action type",
		},
		[]string{"trigger", "action"},
	)

	DebtMinutesPaid = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "study_debt_minutes_paid_total",
			Help: "Study-debt minutes allocated by the payment algorithm",
		},
	)

	RemediationSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remediation_submissions_total",
			Help: "Remediation proof submissions, by outcome",
		},
		[]string{"outcome"},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(EnforcementActions)
	prometheus.MustRegister(DebtMinutesPaid)
	prometheus.MustRegister(RemediationSubmissions)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
