package oidc

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/hafiz229/doctors-portal-server/pkg/middleware"
)

// Verifier checks Firebase ID tokens (or any OIDC ID token) against the
// issuer's published keys. Signature, issuer, audience and expiry are checked
// by go-oidc.
type Verifier struct {
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
}

// NewVerifier discovers the provider at issuer and verifies tokens for clientID.
// For Firebase, issuer is https://securetoken.google.com/<project> and
// clientID is the project id.
func NewVerifier(ctx context.Context, issuer, clientID string) (*Verifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}
	return &Verifier{provider: provider, verifier: provider.Verifier(&oidc.Config{ClientID: clientID})}, nil
}

// NewStaticVerifier verifies tokens with a fixed key set instead of discovery.
// Used when the key set is already known (tests, air-gapped deployments).
func NewStaticVerifier(issuer, clientID string, keySet oidc.KeySet) *Verifier {
	return &Verifier{verifier: oidc.NewVerifier(issuer, keySet, &oidc.Config{ClientID: clientID})}
}

// Verify verifies the raw ID token and returns it as a middleware.Token
func (v *Verifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	idToken, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	return idToken, nil
}
