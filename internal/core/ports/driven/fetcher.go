package driven

import (
	"context"
)

// FetchResult is the body and declared content type of a fetched URL
type FetchResult struct {
	URL         string
	ContentType string
	Body        []byte
}

// Fetcher retrieves web content with a bounded timeout
type Fetcher interface {
	// Get fetches url. Non-success statuses are errors.
	Get(ctx context.Context, url string) (*FetchResult, error)
}
