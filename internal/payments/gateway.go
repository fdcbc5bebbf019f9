package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/hafiz229/doctors-portal-server/pkg/logger"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

var (
	// ErrGatewayUnavailable is returned when no payment processor is configured.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrGatewayFailed wraps errors reported by the payment processor.
	ErrGatewayFailed = errors.New("payment gateway failed")
)

// Intent is a created payment intent.
type Intent struct {
	ID           string
	ClientSecret string
}

// Gateway creates payment intents with an external processor.
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency, idempotencyKey string) (Intent, error)
}

// StripeGateway creates card payment intents through the Stripe API.
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway returns a gateway using secretKey. backends may be nil
// to use Stripe's defaults.
func NewStripeGateway(secretKey string, backends *stripe.Backends) *StripeGateway {
	return &StripeGateway{api: client.New(secretKey, backends)}
}

// NewStripeBackends builds backends that log through pkg/logger. url
// overrides the API base URL when not empty.
func NewStripeBackends(url string) *stripe.Backends {
	cfg := &stripe.BackendConfig{
		LeveledLogger:     stripeLogger{},
		MaxNetworkRetries: stripe.Int64(2),
	}
	if url != "" {
		cfg.URL = stripe.String(url)
	}
	return &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, cfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, cfg),
	}
}

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amount int64, currency, idempotencyKey string) (Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	if idempotencyKey != "" {
		params.SetIdempotencyKey(idempotencyKey)
	}
	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		var serr *stripe.Error
		if errors.As(err, &serr) {
			return Intent{}, fmt.Errorf("%w: %s (%s)", ErrGatewayFailed, serr.Msg, serr.Type)
		}
		return Intent{}, fmt.Errorf("%w: %v", ErrGatewayFailed, err)
	}
	return Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// DisabledGateway is used when no secret key is configured.
type DisabledGateway struct{}

func (DisabledGateway) CreatePaymentIntent(ctx context.Context, amount int64, currency, idempotencyKey string) (Intent, error) {
	return Intent{}, ErrGatewayUnavailable
}

// stripeLogger adapts pkg/logger to stripe.LeveledLoggerInterface.
type stripeLogger struct{}

func (stripeLogger) Debugf(format string, v ...interface{}) { logger.Debugf("stripe: "+format, v...) }
func (stripeLogger) Infof(format string, v ...interface{})  { logger.Debugf("stripe: "+format, v...) }
func (stripeLogger) Warnf(format string, v ...interface{})  { logger.Warnf("stripe: "+format, v...) }
func (stripeLogger) Errorf(format string, v ...interface{}) { logger.Errorf("stripe: "+format, v...) }
