package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "portal"

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	IdentityVerifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "identity_verifications_total", Help: "Bearer token verifications by result (verified|rejected|no_email)."},
		[]string{"result"},
	)
	AppointmentsBooked = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "appointments_booked_total", Help: "Appointments inserted."},
	)
	PaymentsAttached = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "payments_attached_total", Help: "Payment records attached to appointments."},
	)
	AdminPromotions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "admin_promotions_total", Help: "Admin promotion attempts by result (granted|forbidden|error)."},
		[]string{"result"},
	)
	PaymentIntents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "payment_intents_total", Help: "Payment intent requests by result (created|reused|failed)."},
		[]string{"result"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request latency by route.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route", "status"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(
		RateLimitAllowed,
		RateLimitRejected,
		IdentityVerifications,
		AppointmentsBooked,
		PaymentsAttached,
		AdminPromotions,
		PaymentIntents,
		RequestDuration,
	)
}

// Middleware observes request latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Observe(time.Since(start).Seconds())
	}
}
