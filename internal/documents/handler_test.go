package documents_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/clarus/internal/documents"
	"github.com/JaimeStill/clarus/pkg/logging"
	"github.com/JaimeStill/clarus/pkg/routes"
)

func newMux(t *testing.T, maxSize string) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	h := documents.NewHandler(newAnalyzer(t, maxSize), logging.Discard())
	routes.Register(mux, "/api", nil, h.Routes())
	return mux
}

func upload(t *testing.T, mux http.Handler, field, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/documents/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Analyze(t *testing.T) {
	mux := newMux(t, "")

	rec := upload(t, mux, "file", "notes.md", []byte("# Notes\nRenew before June."))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result documents.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "notes.md", result.Filename)
	assert.Equal(t, "text/plain", result.ContentType)
}

func TestHandler_AnalyzeErrors(t *testing.T) {
	mux := newMux(t, "1KB")

	tests := []struct {
		name     string
		field    string
		filename string
		data     []byte
		status   int
	}{
		{"wrong field", "document", "a.txt", []byte("hello"), http.StatusBadRequest},
		{"empty file", "file", "a.txt", nil, http.StatusBadRequest},
		{"too large", "file", "a.txt", bytes.Repeat([]byte("a"), 4096), http.StatusRequestEntityTooLarge},
		{"far too large", "file", "a.txt", bytes.Repeat([]byte("a"), 256<<10), http.StatusRequestEntityTooLarge},
		{"broken pdf", "file", "a.pdf", []byte("%PDF-1.4\nnot a pdf"), http.StatusUnprocessableEntity},
		{"unsupported", "file", "a.bin", []byte{0, 1, 2, 3, 0xff, 0xfe}, http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := upload(t, mux, tt.field, tt.filename, tt.data)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestHandler_NotMultipart(t *testing.T) {
	mux := newMux(t, "")

	req := httptest.NewRequest(http.MethodPost, "/documents/analyze", bytes.NewReader([]byte(`{"file":"x"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
