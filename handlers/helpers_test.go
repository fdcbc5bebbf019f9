package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hafiz229/doctors-portal-server/internal/appointments"
	"github.com/hafiz229/doctors-portal-server/internal/checkout"
	"github.com/hafiz229/doctors-portal-server/internal/doctors"
	"github.com/hafiz229/doctors-portal-server/internal/models"
	"github.com/hafiz229/doctors-portal-server/internal/payments"
	"github.com/hafiz229/doctors-portal-server/internal/users"
	"github.com/hafiz229/doctors-portal-server/pkg/middleware"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// emailToken carries the email claim of a test identity.
type emailToken struct{ email string }

func (t emailToken) Claims(v interface{}) error {
	b, err := json.Marshal(map[string]string{"email": t.email})
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// tokenVerifier accepts "valid:<email>" tokens and rejects everything else.
type tokenVerifier struct{}

func (tokenVerifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	email, ok := strings.CutPrefix(raw, "valid:")
	if !ok {
		return nil, errors.New("bad token")
	}
	return emailToken{email: email}, nil
}

func bearer(email string) string { return "Bearer valid:" + email }

type recordingGateway struct {
	mu      sync.Mutex
	amounts []int64
	keys    []string
	err     error
}

func (g *recordingGateway) CreatePaymentIntent(ctx context.Context, amount int64, currency, key string) (payments.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return payments.Intent{}, g.err
	}
	g.amounts = append(g.amounts, amount)
	g.keys = append(g.keys, key)
	id := fmt.Sprintf("pi_%d", len(g.amounts))
	return payments.Intent{ID: id, ClientSecret: id + "_secret_x"}, nil
}

type testAPI struct {
	engine   *gin.Engine
	users    *users.MemoryRepo
	doctors  *doctors.MemoryRepo
	gateway  *recordingGateway
	maxImage int64
}

type apiOption func(*Services, *Options)

func newTestAPI(t *testing.T, opts ...apiOption) *testAPI {
	t.Helper()
	apptRepo := appointments.NewMemoryRepo()
	userRepo := users.NewMemoryRepo()
	doctorRepo := doctors.NewMemoryRepo()
	gw := &recordingGateway{}

	apptSvc := appointments.NewService(apptRepo)
	paySvc := payments.NewService(gw, "usd",
		checkout.NewService(checkout.NewMemoryRepository(), 0), apptSvc)
	apptSvc.SetSettler(paySvc)
	svc := Services{
		Appointments: apptSvc,
		Doctors:      doctors.NewService(doctorRepo, nil),
		Users:        users.NewService(userRepo),
		Payments:     paySvc,
	}
	o := Options{Verifier: tokenVerifier{}, MaxImageBytes: 1024}
	for _, fn := range opts {
		fn(&svc, &o)
	}
	return &testAPI{engine: NewRouter(svc, o), users: userRepo, doctors: doctorRepo, gateway: gw, maxImage: o.MaxImageBytes}
}

func (a *testAPI) seedAdmin(t *testing.T, email string) {
	t.Helper()
	_, err := a.users.Insert(context.Background(), &models.User{Email: email})
	require.NoError(t, err)
	_, err = a.users.SetRole(context.Background(), email, models.RoleAdmin)
	require.NoError(t, err)
}

func (a *testAPI) do(t *testing.T, method, path, body, auth string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
