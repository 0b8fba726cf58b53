package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/clarus/internal/catalog"
	"github.com/JaimeStill/clarus/internal/config"
	"github.com/JaimeStill/clarus/internal/infrastructure"
	"github.com/JaimeStill/clarus/pkg/logging"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GUIDED_CATALOG_FILE", "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestWorkflowsList(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "config.toml")

	out, err := execute(t, "--config", missing, "workflows", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "renewal")
	assert.Contains(t, out, "change_employer")
}

func TestWorkflowsShow(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "config.toml")

	out, err := execute(t, "--config", missing, "workflows", "show", "renewal")
	require.NoError(t, err)

	assert.Contains(t, out, "id: renewal")
	assert.Contains(t, out, "expiry_date")
	assert.Contains(t, out, "type: radio")

	_, err = execute(t, "--config", missing, "workflows", "show", "asylum")
	assert.ErrorIs(t, err, catalog.ErrWorkflowNotFound)
}

func TestWorkflowsCatalogFromConfig(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(`workflows:
  - id: visit
    title: Visitor Visa
    description: Short stays.
    steps:
      - id: purpose
        title: Purpose
        question: Why are you visiting?
        type: text
`), 0o644))

	configPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[guided]\ncatalog_file = \""+filepath.ToSlash(catalogPath)+"\"\n"), 0o644))

	out, err := execute(t, "--config", configPath, "workflows", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "visit")
	assert.NotContains(t, out, "renewal")
}

func TestServeRejectsArgs(t *testing.T) {
	_, err := execute(t, "serve", "now")
	assert.Error(t, err)
}

func TestRouter_Probes(t *testing.T) {
	for _, name := range []string{"OPENROUTER_API_KEY", "GUIDED_STORE", "CLIENT_ORIGIN"} {
		t.Setenv(name, "")
	}

	cfg := &config.Config{}
	require.NoError(t, cfg.Finalize())

	infra, err := infrastructure.NewWithLogger(cfg, logging.Discard())
	require.NoError(t, err)

	router := newRouter(infra)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	assert.Equal(t, http.StatusOK, get("/healthz").Code)

	rec := get("/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	infra.Lifecycle.WaitForStartup()
	rec = get("/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "READY", rec.Body.String())

	rec = get("/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "go_goroutines"))
}
