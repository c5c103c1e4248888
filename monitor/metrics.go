package monitor

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestSummary = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name: "http_requests",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// ScholarWrites counts scholar create/update outcomes by result.
	ScholarWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scholar_writes",
		Help: "Total number of scholar create/update requests",
	}, []string{"operation", "outcome"})

	// LinkWarnings counts non-fatal warnings produced by the linking pipeline
	// (skipped duplicates, unresolved references).
	LinkWarnings = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "link_warnings",
		Help: "Total number of non-fatal linking warnings returned to callers",
	})
)

// HandlerMetrics records per-route request summaries. Uses the gin route
// pattern so GET /api/v1/scholars/42 is reported as /api/v1/scholars/:id.
func HandlerMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestSummary.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(float64(time.Since(start).Milliseconds()))
	}
}

// RegisterMetricsEndpoint exposes /metrics on the given router with a
// dedicated registry.
func RegisterMetricsEndpoint(router *gin.Engine) {
	registry := prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		requestSummary,
		ScholarWrites,
		LinkWarnings,
	)

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
}
