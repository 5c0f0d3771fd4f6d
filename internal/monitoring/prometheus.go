package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "phonemeter"

// Collectors exports request and prediction metrics in Prometheus format.
// Each instance owns its registry so tests can build as many as they need.
type Collectors struct {
	registry *prometheus.Registry

	requests          *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	algorithmVerdicts *prometheus.CounterVec
	ensembleVerdicts  *prometheus.CounterVec
	ensemblePercent   prometheus.Histogram
	rateLimited       *prometheus.CounterVec
}

// NewCollectors registers every collector on a fresh registry
func NewCollectors() *Collectors {
	c := &Collectors{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		algorithmVerdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "algorithm_predictions_total",
			Help:      "Risk categories produced by each scoring algorithm.",
		}, []string{"algorithm", "prediction"}),
		ensembleVerdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ensemble_predictions_total",
			Help:      "Ensemble risk categories.",
		}, []string{"prediction"}),
		ensemblePercent: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ensemble_addiction_percentage",
			Help:      "Distribution of ensemble addiction percentages.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}, []string{"route"}),
	}

	c.registry.MustRegister(
		c.requests,
		c.requestDuration,
		c.algorithmVerdicts,
		c.ensembleVerdicts,
		c.ensemblePercent,
		c.rateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveAlgorithm counts one algorithm verdict
func (c *Collectors) ObserveAlgorithm(algorithm, prediction string) {
	c.algorithmVerdicts.WithLabelValues(algorithm, prediction).Inc()
}

// ObserveEnsemble counts the ensemble verdict and records its percentage
func (c *Collectors) ObserveEnsemble(prediction string, percentage int) {
	c.ensembleVerdicts.WithLabelValues(prediction).Inc()
	c.ensemblePercent.Observe(float64(percentage))
}

func (c *Collectors) ObserveRateLimited(route string) {
	c.rateLimited.WithLabelValues(route).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Middleware records request counts and latency per matched route
func (c *Collectors) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := ctx.Request.Method
		c.requests.WithLabelValues(method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.requestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
