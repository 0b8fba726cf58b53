package guided

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/clarus/internal/catalog"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionComplete = errors.New("session is already complete")
	ErrConflict        = errors.New("session was modified concurrently")
	ErrInvalidAnswer   = errors.New("invalid answer")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrDuplicate       = errors.New("session already exists")
)

// MapHTTPStatus maps guided and catalog errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound),
		errors.Is(err, catalog.ErrWorkflowNotFound),
		errors.Is(err, catalog.ErrStepNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSessionComplete), errors.Is(err, ErrConflict), errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidAnswer), errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
