package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hafiz229/doctors-portal-server/pkg/middleware"
)

// DevIssuer is the issuer claim of locally minted tokens.
const DevIssuer = "doctors-portal-dev"

var ErrNoSecret = errors.New("dev token secret is not configured")

// DevTokens mints and verifies HS256 identity tokens for local development,
// standing in for the hosted identity provider.
type DevTokens struct {
	secret []byte
}

func NewDevTokens(secret string) (*DevTokens, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &DevTokens{secret: []byte(secret)}, nil
}

// Issue creates a signed token for email valid for ttl.
func (d *DevTokens) Issue(email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   DevIssuer,
		"sub":   strings.ToLower(email),
		"email": strings.ToLower(email),
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(d.secret)
}

type devToken struct {
	claims jwt.MapClaims
}

func (t *devToken) Claims(v interface{}) error {
	b, err := json.Marshal(t.claims)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// Verify implements middleware.Verifier.
func (d *DevTokens) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return d.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(DevIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	return &devToken{claims: claims}, nil
}
