package mocks

import (
	"github.com/k02miu/inner-rag/internal/core/domain"
)

// MockContentExtractor is a mock implementation of ContentExtractor for testing.
// By default it returns the content unchanged.
type MockContentExtractor struct {
	ExtractFileFn func(content []byte, docType domain.DocType, name string) (string, error)
	ExtractWebFn  func(content []byte, contentType, url string) (string, error)
}

func NewMockContentExtractor() *MockContentExtractor {
	return &MockContentExtractor{}
}

func (m *MockContentExtractor) ExtractFile(content []byte, docType domain.DocType, name string) (string, error) {
	if m.ExtractFileFn != nil {
		return m.ExtractFileFn(content, docType, name)
	}
	return string(content), nil
}

func (m *MockContentExtractor) ExtractWeb(content []byte, contentType, url string) (string, error) {
	if m.ExtractWebFn != nil {
		return m.ExtractWebFn(content, contentType, url)
	}
	return string(content), nil
}

// MockTextChunker splits text into fixed-size pieces without overlap
type MockTextChunker struct {
	Size int
}

func (m *MockTextChunker) Chunk(text string) []domain.TextChunk {
	size := m.Size
	if size <= 0 {
		size = 1000
	}
	var chunks []domain.TextChunk
	runes := []rune(text)
	for start, pos := 0, 0; start < len(runes); start, pos = start+size, pos+1 {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, domain.TextChunk{Text: string(runes[start:end]), Position: pos})
	}
	return chunks
}
