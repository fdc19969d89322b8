package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatgraph_http_requests_total",
			Help: "Total number of HTTP requests processed by the service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatgraph_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	graphqlOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatgraph_graphql_operations_total",
			Help: "Total number of GraphQL operations by outcome.",
		},
		[]string{"operation", "outcome"},
	)
	subscribersActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chatgraph_subscribers_active",
			Help: "Number of live messageAdded subscribers.",
		},
	)
	busEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatgraph_bus_events_total",
			Help: "Total number of notification bus deliveries.",
		},
		[]string{"result"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chatgraph_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		graphqlOperationsTotal,
		subscribersActive,
		busEventsTotal,
		amqpPublishErrorsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncGraphQLOperation(operation, outcome string) {
	graphqlOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

func IncSubscribers() {
	subscribersActive.Inc()
}

func DecSubscribers() {
	subscribersActive.Dec()
}

func IncEventsDelivered() {
	busEventsTotal.WithLabelValues("delivered").Inc()
}

func IncEventsDropped() {
	busEventsTotal.WithLabelValues("dropped").Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
