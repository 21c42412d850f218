package extractors

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	htmlNoiseSelector   = "script, style, nav, footer, header"
	htmlContentSelector = "article, main, .content, #content, .main, #main"
	htmlNoTitle         = "No Title"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	newlineRun    = regexp.MustCompile(`\n+`)
)

// HTMLExtractor extracts the main readable content of a web page.
type HTMLExtractor struct{}

func (e *HTMLExtractor) Extract(content []byte, url string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", err
	}

	doc.Find(htmlNoiseSelector).Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = htmlNoTitle
	}

	var out strings.Builder
	matches := doc.Find(htmlContentSelector)
	if matches.Length() > 0 {
		matches.Each(func(_ int, s *goquery.Selection) {
			out.WriteString(nodeText(s))
			out.WriteString("\n\n")
		})
	} else if body := doc.Find("body"); body.Length() > 0 {
		out.WriteString(nodeText(body.First()))
	}

	text := whitespaceRun.ReplaceAllString(out.String(), " ")
	text = newlineRun.ReplaceAllString(text, "\n")
	text = strings.TrimSpace(text)

	return fmt.Sprintf("Title: %s\n\nURL: %s\n\n%s", title, url, text), nil
}

func (e *HTMLExtractor) Name() string {
	return "html"
}

// nodeText joins the trimmed, non-empty text nodes under s with newlines.
func nodeText(s *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return strings.Join(parts, "\n")
}
