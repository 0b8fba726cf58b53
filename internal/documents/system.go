package documents

import "context"

// System analyzes uploaded documents.
type System interface {
	// Analyze inspects an upload and returns a preliminary analysis.
	// Returns ErrEmptyDocument, ErrDocumentTooLarge, ErrInvalidDocument, or ErrUnsupportedType.
	Analyze(ctx context.Context, upload Upload) (*Analysis, error)

	MaxUploadSize() int64
}
