package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/clarus/pkg/middleware"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestSystem_ApplyOrder(t *testing.T) {
	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	sys := middleware.New()
	sys.Use(tag("first"))
	sys.Use(tag("second"))

	sys.Apply(ok).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestTrimSlash(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		status   int
		location string
	}{
		{"redirects trailing slash", "/sessions/", http.StatusMovedPermanently, "/sessions"},
		{"keeps query", "/messages/?limit=5", http.StatusMovedPermanently, "/messages?limit=5"},
		{"passes without slash", "/sessions", http.StatusOK, ""},
		{"passes root", "/", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			middleware.TrimSlash()(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	rec := httptest.NewRecorder()
	middleware.Logger(logger)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat?x=1", nil))

	out := buf.String()
	assert.Contains(t, out, "msg=request")
	assert.Contains(t, out, "method=POST")
	assert.Contains(t, out, "uri=\"/chat?x=1\"")
	assert.Contains(t, out, "duration=")
}

func TestCORS(t *testing.T) {
	cfg := &middleware.CORSConfig{
		Enabled:        true,
		Origins:        []string{"http://localhost:5173"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         600,
	}

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rec := httptest.NewRecorder()
		middleware.CORS(cfg)(ok).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST", rec.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("disallowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://evil.com")
		rec := httptest.NewRecorder()
		middleware.CORS(cfg)(ok).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rec := httptest.NewRecorder()
		middleware.CORS(cfg)(ok).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("disabled", func(t *testing.T) {
		disabled := *cfg
		disabled.Enabled = false

		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rec := httptest.NewRecorder()
		middleware.CORS(&disabled)(ok).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestCORSConfig_Finalize(t *testing.T) {
	env := &middleware.CORSEnv{
		Enabled:         "TEST_CORS_ENABLED",
		Origins:         "TEST_CORS_ORIGINS",
		OriginsFallback: "TEST_CLIENT_ORIGIN",
		MaxAge:          "TEST_CORS_MAX_AGE",
	}

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("TEST_CORS_ORIGINS", "")
		t.Setenv("TEST_CLIENT_ORIGIN", "")

		cfg := &middleware.CORSConfig{}
		require.NoError(t, cfg.Finalize(env))

		assert.Equal(t, []string{"GET", "POST", "OPTIONS"}, cfg.AllowedMethods)
		assert.Equal(t, []string{"Content-Type", "Authorization"}, cfg.AllowedHeaders)
		assert.Equal(t, 86400, cfg.MaxAge)
	})

	t.Run("fallback origin", func(t *testing.T) {
		t.Setenv("TEST_CORS_ORIGINS", "")
		t.Setenv("TEST_CLIENT_ORIGIN", "https://clarus.example.se")

		cfg := &middleware.CORSConfig{}
		require.NoError(t, cfg.Finalize(env))
		assert.Equal(t, []string{"https://clarus.example.se"}, cfg.Origins)
	})

	t.Run("primary wins", func(t *testing.T) {
		t.Setenv("TEST_CORS_ENABLED", "true")
		t.Setenv("TEST_CORS_ORIGINS", "https://a.example.se, https://b.example.se")
		t.Setenv("TEST_CLIENT_ORIGIN", "https://clarus.example.se")
		t.Setenv("TEST_CORS_MAX_AGE", "60")

		cfg := &middleware.CORSConfig{}
		require.NoError(t, cfg.Finalize(env))

		assert.True(t, cfg.Enabled)
		assert.Equal(t, []string{"https://a.example.se", "https://b.example.se"}, cfg.Origins)
		assert.Equal(t, 60, cfg.MaxAge)
	})
}

func TestCORSConfig_Merge(t *testing.T) {
	base := &middleware.CORSConfig{
		Origins:        []string{"http://localhost:5173"},
		AllowedMethods: []string{"GET"},
		MaxAge:         100,
	}

	base.Merge(&middleware.CORSConfig{
		Enabled: true,
		Origins: []string{"https://clarus.example.se"},
	})

	assert.True(t, base.Enabled)
	assert.Equal(t, []string{"https://clarus.example.se"}, base.Origins)
	assert.Equal(t, []string{"GET"}, base.AllowedMethods)
	assert.Equal(t, 100, base.MaxAge)
}
