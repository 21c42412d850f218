package domain

import (
	"reflect"
	"testing"
)

func TestExtractURLs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"none", "what is the leave policy?", []string{}},
		{"plain", "<@U123> https://example.com/docs", []string{"https://example.com/docs"}},
		{"slack markup", "<@U123> <https://example.com/a>", []string{"https://example.com/a"}},
		{"slack label", "see <https://example.com/a|the docs>", []string{"https://example.com/a"}},
		{"trailing punctuation", "read http://example.com/page).", []string{"http://example.com/page"}},
		{"multiple", "https://a.example.com and https://b.example.com/x", []string{"https://a.example.com", "https://b.example.com/x"}},
		{"query kept", "https://example.com/p?id=1", []string{"https://example.com/p?id=1"}},
		{"scheme only", "https:// nothing", []string{}},
		{"non-ascii path", "<@U1> <https://ja.wikipedia.org/wiki/東京> と <https://example.com/docs/設計書>", []string{"https://ja.wikipedia.org/wiki/東京", "https://example.com/docs/設計書"}},
		{"non-ascii then punctuation", "見て https://example.com/資料。", []string{"https://example.com/資料"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractURLs(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractURLs(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestWantsURLIngestion(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"https://example.com", true},
		{"see http://example.com", true},
		{"please import rag", true},
		{"Import RAG now", true},
		{"what is our vacation policy?", false},
	}

	for _, tt := range tests {
		if got := WantsURLIngestion(tt.text); got != tt.want {
			t.Errorf("WantsURLIngestion(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestStripMentions(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<@U0ABC123> what is X?", "what is X?"},
		{"<@U1> <@U2>   ", ""},
		{"no mention", "no mention"},
		{"ask <@W99> later", "ask  later"},
	}

	for _, tt := range tests {
		if got := StripMentions(tt.in); got != tt.want {
			t.Errorf("StripMentions(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInboundEventThread(t *testing.T) {
	e := &InboundEvent{Channel: "C1", ThreadRef: "123.456"}
	th := e.Thread()
	if th.Channel != "C1" || th.ThreadRef != "123.456" {
		t.Errorf("unexpected thread %+v", th)
	}
}
