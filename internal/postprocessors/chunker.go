package postprocessors

import (
	"fmt"
	"unicode"

	"github.com/k02miu/inner-rag/internal/core/domain"
	"github.com/k02miu/inner-rag/internal/core/ports/driven"
)

// ChunkConfig configures the chunker behavior.
type ChunkConfig struct {
	// Size is the target number of characters per chunk
	Size int `yaml:"size"`

	// Overlap is the number of characters shared by consecutive chunks
	Overlap int `yaml:"overlap"`
}

// DefaultChunkConfig returns the default chunk geometry.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		Size:    1000,
		Overlap: 100,
	}
}

// Validate rejects configs that cannot make forward progress.
func (c ChunkConfig) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("%w: size must be positive, got %d", domain.ErrInvalidChunkConfig, c.Size)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("%w: overlap must not be negative, got %d", domain.ErrInvalidChunkConfig, c.Overlap)
	}
	if c.Overlap >= c.Size {
		return fmt.Errorf("%w: overlap %d must be smaller than size %d", domain.ErrInvalidChunkConfig, c.Overlap, c.Size)
	}
	return nil
}

// Chunker splits text into overlapping chunks, preferring to break
// just after a newline or space.
type Chunker struct {
	config ChunkConfig
}

// Verify interface compliance
var _ driven.TextChunker = (*Chunker)(nil)

// NewChunker creates a new chunker with the given config.
func NewChunker(config ChunkConfig) (*Chunker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Chunker{config: config}, nil
}

// Chunk splits text. Lengths are counted in characters, not bytes.
func (c *Chunker) Chunk(text string) []domain.TextChunk {
	runes := []rune(text)
	if len(runes) <= c.config.Size {
		return []domain.TextChunk{{Text: text, Position: 0}}
	}

	var chunks []domain.TextChunk
	start := 0

	for start < len(runes) {
		end := start + c.config.Size

		if end >= len(runes) {
			chunks = append(chunks, domain.TextChunk{
				Text:     string(runes[start:]),
				Position: len(chunks),
			})
			break
		}

		if !unicode.IsSpace(runes[end]) && end < len(runes)-1 {
			end = breakAfter(runes, end)
		}

		chunks = append(chunks, domain.TextChunk{
			Text:     string(runes[start:end]),
			Position: len(chunks),
		})

		start = end - c.config.Overlap
	}

	return chunks
}

// breakAfter moves end just past the next newline when it comes before the
// next space, else just past the next space. With neither, end is kept.
func breakAfter(runes []rune, end int) int {
	nextSpace := indexFrom(runes, ' ', end)
	nextNewline := indexFrom(runes, '\n', end)

	if nextNewline != -1 && (nextSpace == -1 || nextNewline < nextSpace) {
		return nextNewline + 1
	}
	if nextSpace != -1 {
		return nextSpace + 1
	}
	return end
}

func indexFrom(runes []rune, r rune, from int) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
