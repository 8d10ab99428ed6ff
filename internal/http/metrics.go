package http

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus instruments recorded by the server.
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	generationsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers the server metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "specd_http_requests_total",
			Help: "Total HTTP requests labeled by method, route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "specd_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds labeled by method and route.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 120.0},
		}, []string{"method", "route"}),
		generationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "specd_generations_total",
			Help: "Total specification generation attempts labeled by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.requestsTotal, m.requestDuration, m.generationsTotal)
	return m
}

// Middleware returns an echo middleware that records request count and
// duration. The route template (/api/specs/:id) is used as the label, not
// the raw path, to keep cardinality bounded.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			status := strconv.Itoa(statusFor(c, err))

			m.requestsTotal.WithLabelValues(method, route, status).Inc()
			m.requestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// ObserveGeneration records one generation attempt with outcome "success"
// or "failure".
func (m *Metrics) ObserveGeneration(outcome string) {
	m.generationsTotal.WithLabelValues(outcome).Inc()
}
