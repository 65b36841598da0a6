package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "geowhiz"

// Metrics owns its registry so several servers (and tests) can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	requests             *prometheus.CounterVec
	requestDuration      *prometheus.HistogramVec
	quizzesGenerated     *prometheus.CounterVec
	submissions          *prometheus.CounterVec
	submissionPercentage prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		}, []string{"method", "route"}),
		quizzesGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quizzes_generated_total",
			Help:      "Quizzes served per country",
		}, []string{"country", "fallback"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Scored submissions per country",
		}, []string{"country"}),
		submissionPercentage: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_percentage",
			Help:      "Distribution of submission percentages",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}),
	}
	m.registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.quizzesGenerated,
		m.submissions,
		m.submissionPercentage,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Middleware records request count and latency labelled by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) QuizGenerated(country string, fallback bool) {
	m.quizzesGenerated.WithLabelValues(country, strconv.FormatBool(fallback)).Inc()
}

func (m *Metrics) SubmissionScored(country string, percentage int) {
	m.submissions.WithLabelValues(country).Inc()
	m.submissionPercentage.Observe(float64(percentage))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
