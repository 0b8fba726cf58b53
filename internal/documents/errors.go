package documents

import (
	"errors"
	"net/http"
)

var (
	ErrMissingFile      = errors.New("file is required")
	ErrEmptyDocument    = errors.New("document is empty")
	ErrDocumentTooLarge = errors.New("document exceeds maximum upload size")
	ErrInvalidDocument  = errors.New("document could not be read")
	ErrUnsupportedType  = errors.New("unsupported file type, upload a PDF or text document")
)

func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrMissingFile), errors.Is(err, ErrEmptyDocument):
		return http.StatusBadRequest
	case errors.Is(err, ErrDocumentTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrInvalidDocument):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
