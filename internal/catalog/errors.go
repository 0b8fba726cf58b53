package catalog

import (
	"errors"
	"net/http"
)

var (
	ErrWorkflowNotFound = errors.New("workflow not found")
	ErrStepNotFound     = errors.New("step not found")
	ErrInvalidCatalog   = errors.New("invalid workflow catalog")
)

// MapHTTPStatus maps catalog errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrWorkflowNotFound) || errors.Is(err, ErrStepNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
