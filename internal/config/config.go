package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Firebase  FirebaseConfig
	Stripe    StripeConfig
	RateLimit RateLimitConfig
	Uploads   UploadsConfig
	Checkout  CheckoutConfig
	Dev       DevConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	LogLevel        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowOrigins    []string
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

// FirebaseConfig points the identity verifier at a Firebase project.
type FirebaseConfig struct {
	ProjectID          string
	AllowInsecureToken bool
}

// Issuer is the OIDC issuer Firebase uses for ID tokens of the project.
func (f FirebaseConfig) Issuer() string {
	if f.ProjectID == "" {
		return ""
	}
	return "https://securetoken.google.com/" + f.ProjectID
}

type StripeConfig struct {
	SecretKey string
	Currency  string
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

type UploadsConfig struct {
	MaxImageBytes int64
}

type CheckoutConfig struct {
	TTL time.Duration
}

type DevConfig struct {
	TokenSecret string
	AdminEmail  string
}

var ErrMissingMongoURI = errors.New("MONGODB_URI (or DB_USER/DB_PASS/DB_HOST) is required")

// LoadConfig loads configuration from environment variables and .env file.
// requireMongo controls whether a missing Mongo URI is an error; the dev
// server runs without one.
func LoadConfig(requireMongo bool) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("SERVER_READ_TIMEOUT", 30)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 10)
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MONGODB_DATABASE", "doctors_portal")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("PAYMENT_CURRENCY", "usd")
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	v.SetDefault("DOCTOR_IMAGE_MAX_BYTES", 5<<20)
	v.SetDefault("CHECKOUT_TTL_MINUTES", 30)

	port := v.GetString("SERVER_PORT")
	if port == "" {
		port = v.GetString("PORT")
	}
	if port == "" {
		port = "5000"
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            port,
			Host:            v.GetString("SERVER_HOST"),
			Environment:     v.GetString("SERVER_ENVIRONMENT"),
			LogLevel:        v.GetString("LOG_LEVEL"),
			ReadTimeout:     time.Duration(v.GetInt("SERVER_READ_TIMEOUT")) * time.Second,
			WriteTimeout:    time.Duration(v.GetInt("SERVER_WRITE_TIMEOUT")) * time.Second,
			ShutdownTimeout: time.Duration(v.GetInt("SERVER_SHUTDOWN_TIMEOUT")) * time.Second,
			AllowOrigins:    splitList(v.GetString("CORS_ALLOW_ORIGINS")),
		},
		MongoDB: MongoDBConfig{
			URI:      mongoURI(v),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Firebase: FirebaseConfig{
			ProjectID:          v.GetString("FIREBASE_PROJECT_ID"),
			AllowInsecureToken: v.GetBool("ALLOW_INSECURE_TOKEN"),
		},
		Stripe: StripeConfig{
			SecretKey: v.GetString("STRIPE_SECRET_KEY"),
			Currency:  strings.ToLower(v.GetString("PAYMENT_CURRENCY")),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Uploads: UploadsConfig{
			MaxImageBytes: v.GetInt64("DOCTOR_IMAGE_MAX_BYTES"),
		},
		Checkout: CheckoutConfig{
			TTL: time.Duration(v.GetInt("CHECKOUT_TTL_MINUTES")) * time.Minute,
		},
		Dev: DevConfig{
			TokenSecret: v.GetString("DEV_TOKEN_SECRET"),
			AdminEmail:  v.GetString("DEV_ADMIN_EMAIL"),
		},
	}

	if requireMongo && cfg.MongoDB.URI == "" {
		return nil, ErrMissingMongoURI
	}
	return cfg, nil
}

// mongoURI prefers MONGODB_URI and falls back to the DB_USER/DB_PASS/DB_HOST
// triple used by older deployments of the portal.
func mongoURI(v *viper.Viper) string {
	if uri := v.GetString("MONGODB_URI"); uri != "" {
		return uri
	}
	user, pass, host := v.GetString("DB_USER"), v.GetString("DB_PASS"), v.GetString("DB_HOST")
	if user == "" || pass == "" || host == "" {
		return ""
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
		url.QueryEscape(user), url.QueryEscape(pass), host)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
