package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/clarus/internal/api"
	"github.com/JaimeStill/clarus/internal/catalog"
	"github.com/JaimeStill/clarus/internal/config"
	"github.com/JaimeStill/clarus/internal/infrastructure"
	"github.com/JaimeStill/clarus/pkg/logging"
	"github.com/JaimeStill/clarus/pkg/module"
	"github.com/JaimeStill/clarus/pkg/openapi"
)

func newRouter(t *testing.T) *module.Router {
	t.Helper()
	for _, name := range []string{"OPENROUTER_API_KEY", "GUIDED_STORE", "GUIDED_CATALOG_FILE", "CLIENT_ORIGIN", "API_CORS_ORIGINS", "API_BASE_PATH"} {
		t.Setenv(name, "")
	}

	cfg := &config.Config{}
	cfg.API.CORS.Enabled = true
	require.NoError(t, cfg.Finalize())

	infra, err := infrastructure.NewWithLogger(cfg, logging.Discard())
	require.NoError(t, err)

	m, err := api.NewModule(cfg, infra)
	require.NoError(t, err)

	router := module.NewRouter()
	router.Mount(m)
	return router
}

func TestModule_Workflows(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/guided/workflows", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []catalog.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotEmpty(t, got)
}

func TestModule_ChatNotConfigured(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hej"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "OPENROUTER_API_KEY")
}

func TestModule_OpenAPI(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/openapi.json", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var spec openapi.Spec
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &spec))

	for _, path := range []string{
		"/api/guided/workflows",
		"/api/guided/sessions/{id}/answers",
		"/api/chat",
		"/api/chat/stream",
		"/api/chat/messages",
		"/api/documents/analyze",
	} {
		assert.Contains(t, spec.Paths, path)
	}
	assert.Contains(t, spec.Components.Schemas, "ChatRequest")
	assert.Contains(t, spec.Components.Schemas, "DocumentAnalysis")
}

func TestModule_CORS(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", config.DefaultClientOrigin)
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, config.DefaultClientOrigin, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/guided/workflows", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestModule_TrailingSlashRedirect(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/guided/workflows/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
}
