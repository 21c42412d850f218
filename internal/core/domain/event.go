package domain

import (
	"regexp"
	"strings"
)

// Attachment is a file shared alongside a chat message
type Attachment struct {
	Ref          string `json:"ref"`
	Name         string `json:"name"`
	DeclaredType string `json:"declared_type"`
}

// InboundEvent is a mention event delivered by the chat platform
type InboundEvent struct {
	EventID     string       `json:"event_id"`
	Text        string       `json:"text"`
	Channel     string       `json:"channel"`
	ThreadRef   string       `json:"thread_ref"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Thread returns where replies to this event should be posted
func (e *InboundEvent) Thread() Thread {
	return Thread{Channel: e.Channel, ThreadRef: e.ThreadRef}
}

// Thread addresses a conversation thread
type Thread struct {
	Channel   string `json:"channel"`
	ThreadRef string `json:"thread_ref"`
}

// ImportKeyword switches a message into URL ingestion mode
const ImportKeyword = "import rag"

var (
	urlPattern      = regexp.MustCompile(`https?://[^\s<>]+`)
	trailingJunk    = regexp.MustCompile(`[^\p{L}\p{N}_/:\-]+$`)
	mentionPattern  = regexp.MustCompile(`<@[A-Z0-9]+>`)
	linkLabelMarker = "|"
)

// ExtractURLs returns the http(s) URLs found in message text, in order.
// Chat link markup (<url|label>) is reduced to the URL and trailing
// punctuation is dropped.
func ExtractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		if i := strings.Index(m, linkLabelMarker); i >= 0 {
			m = m[:i]
		}
		m = trailingJunk.ReplaceAllString(m, "")
		if m == "" || m == "http://" || m == "https://" {
			continue
		}
		urls = append(urls, m)
	}
	return urls
}

// WantsURLIngestion reports whether message text routes to URL ingestion
func WantsURLIngestion(text string) bool {
	return strings.Contains(text, "http://") ||
		strings.Contains(text, "https://") ||
		strings.Contains(strings.ToLower(text), ImportKeyword)
}

// StripMentions removes user mention tokens and trims the result
func StripMentions(text string) string {
	return strings.TrimSpace(mentionPattern.ReplaceAllString(text, ""))
}
