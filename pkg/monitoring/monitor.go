package monitoring

import (
	"strconv"
	"sync"
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
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	QuizAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_attempts_total",
			Help: "Graded module quiz attempts by result",
		},
		[]string{"result"},
	)

	GateRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lesson_gate_rejections_total",
			Help: "Lesson completions refused by a progression gate",
		},
		[]string{"gate"},
	)

	ProgressConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "progress_conflicts_total",
			Help: "Progress writes retried after a concurrent version change",
		},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(QuizAttempts)
		prometheus.MustRegister(GateRejections)
		prometheus.MustRegister(ProgressConflicts)
	})
}

func RecordQuizAttempt(passed bool) {
	result := "failed"
	if passed {
		result = "passed"
	}
	QuizAttempts.WithLabelValues(result).Inc()
}

func RecordGateRejection(gate string) {
	GateRejections.WithLabelValues(gate).Inc()
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
