package driven

import (
	"github.com/k02miu/inner-rag/internal/core/domain"
)

// Extractor turns one content format into plain text
type Extractor interface {
	// Extract parses content. source is the file name or URL, used by
	// formats that embed it in their output.
	Extract(content []byte, source string) (string, error)

	// Name returns the extractor name for logging
	Name() string
}

// ContentExtractor dispatches raw content to the right Extractor.
// Failures are domain.ErrUnsupportedType or wrap domain.ErrExtractionFailed.
type ContentExtractor interface {
	// ExtractFile extracts text from an uploaded file of a declared type
	ExtractFile(content []byte, docType domain.DocType, name string) (string, error)

	// ExtractWeb extracts text from a fetched web response by content type
	ExtractWeb(content []byte, contentType, url string) (string, error)
}

// TextChunker splits text into overlapping chunks
type TextChunker interface {
	Chunk(text string) []domain.TextChunk
}
