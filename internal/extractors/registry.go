package extractors

import (
	"fmt"
	"strings"

	"github.com/k02miu/inner-rag/internal/core/domain"
	"github.com/k02miu/inner-rag/internal/core/ports/driven"
)

// MIME types recognised for fetched web content
const (
	MIMETypeHTML = "text/html"
	MIMETypePDF  = "application/pdf"
	MIMETypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Verify interface compliance
var _ driven.ContentExtractor = (*Registry)(nil)

// Registry dispatches content to an extractor through a fixed table
// keyed by document type.
type Registry struct {
	byType map[domain.DocType]driven.Extractor
	html   driven.Extractor
	text   driven.Extractor
}

// NewRegistry creates a registry with the built-in extractors.
func NewRegistry() *Registry {
	pdf := &PDFExtractor{}
	word := &WordExtractor{}
	sheet := &SpreadsheetExtractor{}

	return &Registry{
		byType: map[domain.DocType]driven.Extractor{
			domain.DocTypePDF:  pdf,
			domain.DocTypeDOCX: word,
			domain.DocTypeDOC:  word,
			domain.DocTypeXLSX: sheet,
			domain.DocTypeXLS:  sheet,
		},
		html: &HTMLExtractor{},
		text: &PlaintextExtractor{},
	}
}

// Get returns the extractor for a document type, or nil.
func (r *Registry) Get(docType domain.DocType) driven.Extractor {
	return r.byType[docType]
}

// ExtractFile extracts text from an uploaded file.
func (r *Registry) ExtractFile(content []byte, docType domain.DocType, name string) (string, error) {
	ex := r.Get(docType)
	if ex == nil {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedType, docType)
	}
	return run(ex, content, name)
}

// ExtractWeb extracts text from a fetched response, choosing the extractor
// from the declared content type. Text bodies are decoded to UTF-8 first.
func (r *Registry) ExtractWeb(content []byte, contentType, url string) (string, error) {
	ex := r.forContentType(contentType)
	if ex == nil {
		return "", fmt.Errorf("%w: content type %q", domain.ErrUnsupportedType, contentType)
	}
	if ex == r.html || ex == r.text {
		decoded, err := decodeToUTF8(content, contentType)
		if err != nil {
			return "", fmt.Errorf("%w: %s: decode body: %v", domain.ErrExtractionFailed, ex.Name(), err)
		}
		content = decoded
	}
	return run(ex, content, url)
}

func (r *Registry) forContentType(contentType string) driven.Extractor {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, MIMETypeHTML):
		return r.html
	case strings.Contains(ct, MIMETypePDF):
		return r.byType[domain.DocTypePDF]
	case strings.Contains(ct, MIMETypeDOCX):
		return r.byType[domain.DocTypeDOCX]
	case strings.Contains(ct, "text/"):
		return r.text
	default:
		return nil
	}
}

// run calls ex and turns both errors and parser panics into ErrExtractionFailed.
func run(ex driven.Extractor, content []byte, source string) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailed, ex.Name(), rec)
		}
	}()

	text, err = ex.Extract(content, source)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailed, ex.Name(), err)
	}
	return text, nil
}
