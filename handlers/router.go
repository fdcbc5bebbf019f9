package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hafiz229/doctors-portal-server/internal/appointments"
	"github.com/hafiz229/doctors-portal-server/internal/doctors"
	"github.com/hafiz229/doctors-portal-server/internal/payments"
	"github.com/hafiz229/doctors-portal-server/internal/users"
	"github.com/hafiz229/doctors-portal-server/pkg/logger"
	"github.com/hafiz229/doctors-portal-server/pkg/metrics"
	"github.com/hafiz229/doctors-portal-server/pkg/middleware"
)

// Services are the domain services the API is built on.
type Services struct {
	Appointments *appointments.Service
	Doctors      *doctors.Service
	Users        *users.Service
	Payments     *payments.Service
}

// Options configure the cross-cutting parts of the router.
type Options struct {
	// Verifier establishes the requester identity; nil disables it.
	Verifier middleware.Verifier
	// AllowOrigins lists CORS origins; empty or "*" allows any origin.
	AllowOrigins []string
	// RateLimiter runs after identity so limits are per requester when known.
	RateLimiter   gin.HandlerFunc
	MaxImageBytes int64
	Ready         ReadinessFunc
	// Metrics is served on /metrics when set.
	Metrics http.Handler
}

// NewRouter assembles the gin engine with middleware and every API route.
func NewRouter(svc Services, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logger.Middleware(), metrics.Middleware())
	r.Use(cors.New(corsConfig(opts.AllowOrigins)))
	r.Use(middleware.Identity(opts.Verifier))
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter)
	}

	RegisterHealth(r, opts.Ready)
	RegisterSwagger(r)
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	NewAppointmentHandler(svc.Appointments).Register(r)
	NewDoctorHandler(svc.Doctors, opts.MaxImageBytes).Register(r, middleware.RequireAdmin(svc.Users, "forbidden"))
	NewUserHandler(svc.Users).Register(r)
	NewPaymentHandler(svc.Payments).Register(r)
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", logger.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", logger.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
