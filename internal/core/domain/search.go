package domain

import (
	"fmt"
	"strings"
)

// DefaultTopK is the number of passages retrieved per question
const DefaultTopK = 3

// SearchResult is one ranked hit from the vector index
type SearchResult struct {
	ID      string  `json:"id"`
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Type    DocType `json:"type"`
	Score   float64 `json:"score"`
}

// BuildContext renders ranked results into the context block handed to the
// generator. Rank numbering starts at 1.
func BuildContext(results []SearchResult) string {
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "[%d] %s\n\nSource: %s\n\n", i+1, r.Content, r.Source)
	}
	return b.String()
}
