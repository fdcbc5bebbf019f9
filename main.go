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
	"github.com/hafiz229/doctors-portal-server/internal/database"
	"github.com/hafiz229/doctors-portal-server/internal/doctors"
	"github.com/hafiz229/doctors-portal-server/internal/oidc"
	"github.com/hafiz229/doctors-portal-server/internal/payments"
	"github.com/hafiz229/doctors-portal-server/internal/storage"
	"github.com/hafiz229/doctors-portal-server/internal/users"
	"github.com/hafiz229/doctors-portal-server/pkg/logger"
	"github.com/hafiz229/doctors-portal-server/pkg/metrics"
	"github.com/hafiz229/doctors-portal-server/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig(true)
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Server.LogLevel)
	logger.Infof("config loaded: firebase=%v redis=%v stripe=%v env=%s",
		cfg.Firebase.ProjectID != "", cfg.Redis.Addr() != "", cfg.Stripe.SecretKey != "", cfg.Server.Environment)
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Retry/backoff when connecting to MongoDB to tolerate startup races
	client, err := database.ConnectWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, time.Second, func(attempt int, err error) {
		logger.Warnf("attempt %d/5: failed to connect to MongoDB: %v", attempt, err)
	})
	if err != nil {
		logger.Fatalf("%v", err)
	}
	db := client.Database(cfg.MongoDB.Database)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		logger.Warnf("failed to ensure indexes: %v", err)
	}

	rdb := connectRedis(ctx, cfg.Redis)
	verifier := newVerifier(ctx, cfg.Firebase)

	userSvc := users.NewService(users.NewMongoUserRepository(db.Collection(database.UsersCollection)))
	apptSvc := appointments.NewService(appointments.NewMongoRepo(db.Collection(database.AppointmentsCollection)))
	doctorSvc := doctors.NewService(doctors.NewMongoRepo(db.Collection(database.DoctorsCollection)), newImageStore(ctx))

	var checkoutRepo checkout.Repository = checkout.NewMongoRepository(db.Collection(database.CheckoutsCollection))
	if rdb != nil {
		checkoutRepo = checkout.NewRedisRepository(rdb, "checkout:")
		logger.Infof("using Redis for checkout intents")
	}
	paySvc := payments.NewService(newGateway(cfg.Stripe), cfg.Stripe.Currency, checkout.NewService(checkoutRepo, cfg.Checkout.TTL), apptSvc)
	apptSvc.SetSettler(paySvc)
	logger.Infof("payments: charging in %s", paySvc.Currency())

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	router := handlers.NewRouter(handlers.Services{
		Appointments: apptSvc,
		Doctors:      doctorSvc,
		Users:        userSvc,
		Payments:     paySvc,
	}, handlers.Options{
		Verifier:      verifier,
		AllowOrigins:  cfg.Server.AllowOrigins,
		RateLimiter:   newRateLimiter(cfg.RateLimit, rdb),
		MaxImageBytes: cfg.Uploads.MaxImageBytes,
		Metrics:       promhttp.Handler(),
		Ready: func() map[string]bool {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			deps := map[string]bool{"mongo": client.Ping(pingCtx, nil) == nil}
			if cfg.Redis.Addr() != "" {
				deps["redis"] = rdb != nil && rdb.Ping(pingCtx).Err() == nil
			}
			if cfg.Firebase.ProjectID != "" {
				deps["identity"] = verifier != nil
			}
			return deps
		},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("doctors portal listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		logger.Errorf("mongo disconnect: %v", err)
	}
}

// connectRedis returns nil when Redis is not configured or unreachable.
func connectRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if cfg.Addr() == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr(), Password: cfg.Password, DB: cfg.DB})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warnf("failed to connect to Redis (%s): %v", cfg.Addr(), err)
		_ = rdb.Close()
		return nil
	}
	logger.Infof("connected to Redis: %s", cfg.Addr())
	return rdb
}

// newVerifier returns the Firebase ID token verifier, the insecure verifier
// in integration mode, or nil when identity is not configured.
func newVerifier(ctx context.Context, cfg config.FirebaseConfig) middleware.Verifier {
	if cfg.ProjectID != "" {
		ver, err := oidc.NewVerifier(ctx, cfg.Issuer(), cfg.ProjectID)
		if err == nil {
			return ver
		}
		logger.Warnf("failed to initialize Firebase verifier: %v", err)
	}
	if cfg.AllowInsecureToken {
		logger.Warn("enabling insecure token verifier (integration mode)")
		return oidc.NewInsecureVerifier()
	}
	logger.Warn("no identity verifier configured: admin-only routes will answer 403")
	return nil
}

func newImageStore(ctx context.Context) doctors.ImageStore {
	mcfg := storage.LoadMinIOConfig()
	if !mcfg.Enabled() {
		return nil
	}
	s, err := storage.NewMinIOStorage(mcfg)
	if err != nil {
		logger.Warnf("doctor image mirror disabled: %v", err)
		return nil
	}
	bctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.EnsureBucket(bctx); err != nil {
		logger.Warnf("doctor image mirror disabled: %v", err)
		return nil
	}
	logger.Infof("mirroring doctor images to MinIO bucket %s", mcfg.Bucket)
	return s
}

func newGateway(cfg config.StripeConfig) payments.Gateway {
	if cfg.SecretKey == "" {
		logger.Warn("STRIPE_SECRET_KEY not set: payment intents will answer 503")
		return payments.DisabledGateway{}
	}
	return payments.NewStripeGateway(cfg.SecretKey, payments.NewStripeBackends(""))
}

func newRateLimiter(cfg config.RateLimitConfig, rdb *redis.Client) gin.HandlerFunc {
	if !cfg.Enabled {
		return nil
	}
	if cfg.UseRedis && rdb != nil {
		win := time.Duration(cfg.WindowSeconds) * time.Second
		return middleware.RedisRateLimitMiddleware(rdb, cfg.RPS, cfg.Burst, win)
	}
	return middleware.RateLimitMiddleware(cfg.RPS, cfg.Burst)
}
