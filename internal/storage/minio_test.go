package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadMinIOConfig(t *testing.T) {
	t.Setenv("MINIO_ENDPOINT", "")
	require.False(t, LoadMinIOConfig().Enabled())

	t.Setenv("MINIO_ENDPOINT", "minio:9000")
	t.Setenv("MINIO_USE_SSL", "true")
	cfg := LoadMinIOConfig()
	require.True(t, cfg.Enabled())
	require.True(t, cfg.UseSSL)
	require.Equal(t, "doctors-portal", cfg.Bucket)
	require.Equal(t, "us-east-1", cfg.Region)
}

func TestNewMinIOStorage_RequiresEndpoint(t *testing.T) {
	_, err := NewMinIOStorage(&MinIOConfig{})
	require.Error(t, err)
}

func TestPresignedURL_Offline(t *testing.T) {
	s, err := NewMinIOStorage(&MinIOConfig{
		Endpoint:  "minio.local:9000",
		AccessKey: "access",
		SecretKey: "secret",
		Bucket:    "doctors-portal",
		Region:    "us-east-1",
	})
	require.NoError(t, err)

	u, err := s.PresignedURL(context.Background(), "doctors/abc/photo.png", 15*time.Minute)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(u, "http://minio.local:9000/doctors-portal/doctors/abc/photo.png?"), u)
	require.Contains(t, u, "X-Amz-Expires=900")
}

func TestPutImage(t *testing.T) {
	var (
		mu   sync.Mutex
		path string
		body []byte
		ct   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		path = r.URL.Path
		ct = r.Header.Get("Content-Type")
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s, err := NewMinIOStorage(&MinIOConfig{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		AccessKey: "access",
		SecretKey: "secret",
		Bucket:    "doctors-portal",
		Region:    "us-east-1",
	})
	require.NoError(t, err)

	require.NoError(t, s.PutImage(context.Background(), "doctors/abc/photo.png", []byte("png-bytes"), "image/png"))
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, "/doctors-portal/doctors/abc/photo.png", path)
	require.Equal(t, "image/png", ct)
	require.Contains(t, string(body), "png-bytes")
}
