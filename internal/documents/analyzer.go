package documents

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/docker/go-units"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/JaimeStill/clarus/internal/metrics"
)

const contentTypePDF = "application/pdf"

var suggestedQuestions = []string{
	"Which clauses are most important?",
	"Are there any deadlines mentioned?",
	"Do I need supporting documentation?",
}

type analyzer struct {
	maxUploadSize int64
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

// New creates the document analyzer. m may be nil.
func New(cfg *Config, m *metrics.Metrics, logger *slog.Logger) System {
	return &analyzer{
		maxUploadSize: cfg.MaxUploadSizeBytes(),
		metrics:       m,
		logger:        logger.With("system", "documents"),
	}
}

func (a *analyzer) MaxUploadSize() int64 {
	return a.maxUploadSize
}

func (a *analyzer) Analyze(ctx context.Context, upload Upload) (*Analysis, error) {
	size := int64(len(upload.Data))
	if size == 0 {
		return nil, ErrEmptyDocument
	}
	if size > a.maxUploadSize {
		return nil, fmt.Errorf("%w: %s > %s", ErrDocumentTooLarge, units.HumanSize(float64(size)), units.HumanSize(float64(a.maxUploadSize)))
	}

	contentType := detectContentType(upload.Data)
	analysis := &Analysis{
		Filename:    upload.Filename,
		ContentType: contentType,
		SizeBytes:   size,
		Summary:     fmt.Sprintf("This is a preliminary analysis for %s.", upload.Filename),
		KeyPoints: []string{
			fmt.Sprintf("File type: %s.", contentType),
			fmt.Sprintf("File size: %s (%d bytes).", units.HumanSize(float64(size)), size),
		},
		Risks:              []string{"Automated content review is not enabled yet; verify important terms with an advisor."},
		SuggestedQuestions: append([]string(nil), suggestedQuestions...),
	}

	switch {
	case contentType == contentTypePDF:
		count, err := pageCount(upload.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		analysis.PageCount = &count
		analysis.KeyPoints = append(analysis.KeyPoints, fmt.Sprintf("Pages: %d.", count))
	case strings.HasPrefix(contentType, "text/"):
		if !utf8.Valid(upload.Data) {
			return nil, fmt.Errorf("%w: text is not valid UTF-8", ErrUnsupportedType)
		}
		text := string(upload.Data)
		if strings.TrimSpace(text) == "" {
			return nil, ErrEmptyDocument
		}
		analysis.KeyPoints = append(analysis.KeyPoints, fmt.Sprintf("Words: %d.", len(strings.Fields(text))))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	a.metrics.DocumentAnalyzed(contentType)
	a.logger.Info("document analyzed", "filename", upload.Filename, "content_type", contentType, "size", size)

	return analysis, nil
}

// detectContentType sniffs the data, dropping any parameters.
func detectContentType(data []byte) string {
	ct := http.DetectContentType(data)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}

func pageCount(data []byte) (int, error) {
	return api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
}
