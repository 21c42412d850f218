package domain

import (
	"strings"

	"github.com/google/uuid"
)

// DocType identifies the kind of content a document was extracted from
type DocType string

const (
	DocTypePDF  DocType = "pdf"
	DocTypeDOCX DocType = "docx"
	DocTypeXLSX DocType = "xlsx"
	DocTypeDOC  DocType = "doc"
	DocTypeXLS  DocType = "xls"
	DocTypeURL  DocType = "url"
)

// SupportedFileTypes lists the declared attachment types accepted for ingestion.
// Types outside this list are rejected before download.
var SupportedFileTypes = []DocType{DocTypePDF, DocTypeDOCX, DocTypeXLSX, DocTypeDOC, DocTypeXLS}

// ParseFileType normalises a declared attachment type ("PDF", ".docx") and
// reports whether it is accepted for ingestion.
func ParseFileType(declared string) (DocType, bool) {
	t := DocType(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(declared)), "."))
	for _, s := range SupportedFileTypes {
		if t == s {
			return t, true
		}
	}
	return t, false
}

// MaxEmbeddingChars caps the text handed to the embedding service.
// 8000 tokens at roughly 4 characters per token.
const MaxEmbeddingChars = 8000 * 4

// IndexedDocument is the unit written to the vector index
type IndexedDocument struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding,omitempty"`
	Source    string    `json:"source"`
	Type      DocType   `json:"type"`
}

// TextChunk is a transient slice of document text
type TextChunk struct {
	Text     string `json:"text"`
	Position int    `json:"position"`
}

// URLDocumentID returns the stable document id for a URL.
// The same URL always yields the same id so re-ingestion overwrites.
func URLDocumentID(url string) string {
	return uuid.NewMD5(uuid.NameSpaceURL, []byte(url)).String()
}

// TruncateForEmbedding cuts text to MaxEmbeddingChars characters.
func TruncateForEmbedding(text string) string {
	if len(text) <= MaxEmbeddingChars {
		return text
	}
	runes := []rune(text)
	if len(runes) <= MaxEmbeddingChars {
		return text
	}
	return string(runes[:MaxEmbeddingChars])
}
