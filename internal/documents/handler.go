package documents

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/clarus/pkg/handlers"
	"github.com/JaimeStill/clarus/pkg/routes"
)

// multipartOverhead allows for boundaries and part headers around the file.
const multipartOverhead = 64 << 10

const maxFormMemory = 32 << 20

// Handler provides HTTP endpoints for document analysis.
type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "documents"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/documents",
		Tags:        []string{"Documents"},
		Description: "Preliminary document analysis",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/analyze", Handler: h.Analyze, OpenAPI: Spec.Analyze},
		},
	}
}

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	limit := h.sys.MaxUploadSize()
	if r.ContentLength > limit+multipartOverhead {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrDocumentTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	if err := r.ParseMultipartForm(min(limit, maxFormMemory)); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrDocumentTooLarge)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrMissingFile, err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingFile)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: no filename provided", ErrMissingFile))
		return
	}
	if header.Size > limit {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrDocumentTooLarge)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrInvalidDocument, err))
		return
	}

	result, err := h.sys.Analyze(r.Context(), Upload{Filename: header.Filename, Data: data})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
