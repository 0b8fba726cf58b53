package chat

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrMessageRequired = errors.New("message is required")
	ErrUpstream        = errors.New("upstream chat request failed")
	ErrUpstreamTimeout = errors.New("upstream chat request timed out")
	ErrInvalidLimit    = errors.New("limit must be a positive integer")
)

// UpstreamError carries a non-success response from the completion API.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream returned status %d", e.Status)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}

// MapHTTPStatus maps chat errors to HTTP status codes. Upstream client and
// server errors keep their status; anything else from upstream is a 502.
func MapHTTPStatus(err error) int {
	var upstream *UpstreamError
	switch {
	case errors.Is(err, ErrMessageRequired), errors.Is(err, ErrInvalidLimit):
		return http.StatusBadRequest
	case errors.Is(err, ErrUpstreamTimeout):
		return http.StatusGatewayTimeout
	case errors.As(err, &upstream):
		if upstream.Status >= 400 && upstream.Status < 600 {
			return upstream.Status
		}
		return http.StatusBadGateway
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
