package domain

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestParseFileType(t *testing.T) {
	tests := []struct {
		in       string
		want     DocType
		accepted bool
	}{
		{"pdf", DocTypePDF, true},
		{"PDF", DocTypePDF, true},
		{".docx", DocTypeDOCX, true},
		{"xlsx", DocTypeXLSX, true},
		{"doc", DocTypeDOC, true},
		{"xls", DocTypeXLS, true},
		{"png", DocType("png"), false},
		{"", DocType(""), false},
		{"url", DocTypeURL, false},
	}

	for _, tt := range tests {
		got, ok := ParseFileType(tt.in)
		if got != tt.want || ok != tt.accepted {
			t.Errorf("ParseFileType(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.accepted)
		}
	}
}

func TestURLDocumentID(t *testing.T) {
	a := URLDocumentID("https://example.com/a")
	b := URLDocumentID("https://example.com/a")
	c := URLDocumentID("https://example.com/b")

	if a != b {
		t.Errorf("expected stable id, got %q and %q", a, b)
	}
	if a == c {
		t.Error("expected different URLs to yield different ids")
	}
	if len(a) != 36 {
		t.Errorf("expected uuid formatted id, got %q", a)
	}
}

func TestTruncateForEmbedding(t *testing.T) {
	short := "hello"
	if got := TruncateForEmbedding(short); got != short {
		t.Errorf("expected short text unchanged, got %q", got)
	}

	long := strings.Repeat("a", MaxEmbeddingChars+10)
	if got := TruncateForEmbedding(long); len(got) != MaxEmbeddingChars {
		t.Errorf("expected %d chars, got %d", MaxEmbeddingChars, len(got))
	}

	// multi-byte text is cut on character boundaries
	wide := strings.Repeat("日", MaxEmbeddingChars+1)
	got := TruncateForEmbedding(wide)
	if utf8.RuneCountInString(got) != MaxEmbeddingChars {
		t.Errorf("expected %d runes, got %d", MaxEmbeddingChars, utf8.RuneCountInString(got))
	}
	if !utf8.ValidString(got) {
		t.Error("expected valid utf8")
	}

	exact := strings.Repeat("日", MaxEmbeddingChars)
	if got := TruncateForEmbedding(exact); got != exact {
		t.Error("expected text at the limit unchanged")
	}
}
