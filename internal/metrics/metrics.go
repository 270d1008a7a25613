// Package metrics declares the Prometheus collectors shared by the API and
// the worker. Collectors register on the default registry at init.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maturity_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "maturity_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	QuizCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maturity_quiz_completed_total",
			Help: "Completed quiz sessions by maturity level",
		},
		[]string{"level"},
	)

	LeadsCaptured = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "maturity_leads_captured_total",
			Help: "Leads whose required insert succeeded",
		},
	)

	LeadSubmitFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maturity_lead_submit_failures_total",
			Help: "Rejected or failed lead submissions by reason",
		},
		[]string{"reason"},
	)

	BestEffortFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maturity_best_effort_failures_total",
			Help: "Swallowed failures of best-effort persistence steps",
		},
		[]string{"step"},
	)

	ReportsRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maturity_reports_rendered_total",
			Help: "Rendered reports by format",
		},
		[]string{"format"},
	)

	JobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maturity_jobs_completed_total",
			Help: "Background jobs completed",
		},
		[]string{"task_type"},
	)

	JobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maturity_jobs_failed_total",
			Help: "Background job attempts that returned an error",
		},
		[]string{"task_type"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "maturity_job_duration_seconds",
			Help: "Duration of background job processing in seconds",
		},
		[]string{"task_type"},
	)
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and latency keyed by the matched route
// template, so /r/:id does not explode label cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// ObserveJob records one job attempt.
func ObserveJob(taskType string, start time.Time, err error) {
	JobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
	if err != nil {
		JobsFailed.WithLabelValues(taskType).Inc()
		return
	}
	JobsCompleted.WithLabelValues(taskType).Inc()
}
