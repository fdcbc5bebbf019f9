// Command devserver runs the portal API on in-memory stores with HS256 dev
// tokens, for local front-end work without Mongo or Firebase.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hafiz229/doctors-portal-server/handlers"
	"github.com/hafiz229/doctors-portal-server/internal/appointments"
	"github.com/hafiz229/doctors-portal-server/internal/checkout"
	"github.com/hafiz229/doctors-portal-server/internal/config"
	"github.com/hafiz229/doctors-portal-server/internal/doctors"
	"github.com/hafiz229/doctors-portal-server/internal/models"
	"github.com/hafiz229/doctors-portal-server/internal/payments"
	"github.com/hafiz229/doctors-portal-server/internal/tokens"
	"github.com/hafiz229/doctors-portal-server/internal/users"
	"github.com/hafiz229/doctors-portal-server/pkg/logger"
	"github.com/hafiz229/doctors-portal-server/pkg/middleware"
)

const (
	defaultDevSecret = "doctors-portal-dev-secret"
	devTokenTTL      = 12 * time.Hour
)

func main() {
	cfg, err := config.LoadConfig(false)
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Server.LogLevel)

	secret := cfg.Dev.TokenSecret
	if secret == "" {
		logger.Warnf("DEV_TOKEN_SECRET not set, using the built-in development secret")
		secret = defaultDevSecret
	}
	dev, err := tokens.NewDevTokens(secret)
	if err != nil {
		logger.Fatalf("dev tokens: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := newServices(cfg)
	if cfg.Dev.AdminEmail != "" {
		if err := seedAdmin(ctx, svc.Users, cfg.Dev.AdminEmail); err != nil {
			logger.Fatalf("seed admin: %v", err)
		}
		logger.Infof("seeded admin %s", cfg.Dev.AdminEmail)
	}

	opts := handlers.Options{
		Verifier:      dev,
		AllowOrigins:  cfg.Server.AllowOrigins,
		MaxImageBytes: cfg.Uploads.MaxImageBytes,
	}
	if cfg.RateLimit.Enabled {
		opts.RateLimiter = middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	router := handlers.NewRouter(svc, opts)
	router.POST("/dev/token", tokenRoute(dev))

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("devserver listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}

func newServices(cfg *config.Config) handlers.Services {
	apptSvc := appointments.NewService(appointments.NewMemoryRepo())
	var gw payments.Gateway = payments.DisabledGateway{}
	if cfg.Stripe.SecretKey != "" {
		gw = payments.NewStripeGateway(cfg.Stripe.SecretKey, payments.NewStripeBackends(""))
	}
	paySvc := payments.NewService(gw, cfg.Stripe.Currency,
		checkout.NewService(checkout.NewMemoryRepository(), cfg.Checkout.TTL), apptSvc)
	apptSvc.SetSettler(paySvc)
	logger.Infof("payments: charging in %s", paySvc.Currency())
	return handlers.Services{
		Appointments: apptSvc,
		Doctors:      doctors.NewService(doctors.NewMemoryRepo(), nil),
		Users:        users.NewService(users.NewMemoryRepo()),
		Payments:     paySvc,
	}
}

func seedAdmin(ctx context.Context, svc *users.Service, email string) error {
	if _, err := svc.Register(ctx, models.User{Email: email}); err != nil && !errors.Is(err, models.ErrConflict) {
		return err
	}
	_, err := svc.GrantAdmin(ctx, email)
	return err
}

// tokenRoute mints a dev token for the email in the body.
func tokenRoute(dev *tokens.DevTokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		tok, err := dev.Issue(req.Email, devTokenTTL)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": tok, "expiresIn": int(devTokenTTL.Seconds())})
	}
}
