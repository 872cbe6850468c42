package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
)

var Module = fx.Module("observability.metrics",
	fx.Provide(NewRegistry),
	fx.Provide(New),
)

func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Metrics exposes application-level instruments.
type Metrics struct {
	BookingsCreated   prometheus.Counter
	WebhooksIgnored   prometheus.Counter
	NotificationsSent prometheus.Counter
	PushFailures      prometheus.Counter

	paymentOutcomes *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		BookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spotnere_bookings_created_total",
			Help: "Bookings inserted in PENDING state.",
		}),
		WebhooksIgnored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spotnere_webhooks_ignored_total",
			Help: "Webhook events acknowledged without a matching booking.",
		}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spotnere_vendor_notifications_total",
			Help: "Vendor notification rows written.",
		}),
		PushFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spotnere_push_failures_total",
			Help: "Best-effort push deliveries that failed.",
		}),
		paymentOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spotnere_payment_outcomes_total",
			Help: "Payment outcomes by trigger and mapped status.",
		}, []string{"trigger", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "spotnere_http_request_duration_seconds",
			Help:    "HTTP request latency by route, method and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}

	reg.MustRegister(
		m.BookingsCreated,
		m.WebhooksIgnored,
		m.NotificationsSent,
		m.PushFailures,
		m.paymentOutcomes,
		m.httpDuration,
	)
	return m
}

func (m *Metrics) PaymentOutcome(trigger, status string) {
	m.paymentOutcomes.WithLabelValues(trigger, status).Inc()
}

// GinMiddleware records request latency per route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		m.httpDuration.WithLabelValues(
			route,
			c.Request.Method,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
