package extractors

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor extracts the text layer of each page.
type PDFExtractor struct{}

func (e *PDFExtractor) Extract(content []byte, _ string) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		pages = append(pages, text)
	}

	return joinPages(pages), nil
}

func (e *PDFExtractor) Name() string {
	return "pdf"
}

// joinPages joins page texts with a blank line, skipping pages without text.
func joinPages(pages []string) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		if strings.TrimSpace(p) == "" {
			continue
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, "\n\n")
}
