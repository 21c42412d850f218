package vespa

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	namespace    = "innerrag"
	documentType = "ragdoc"
)

// Config holds Vespa connection configuration
type Config struct {
	// Endpoint is the container endpoint for feed and query (e.g., http://localhost:8080)
	Endpoint string

	// ConfigEndpoint is the config server used to deploy the application
	// package (e.g., http://localhost:19071)
	ConfigEndpoint string

	// Dimensions is the embedding tensor size
	Dimensions int

	// Timeout for HTTP requests
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig(endpoint string) Config {
	return Config{
		Endpoint:       endpoint,
		ConfigEndpoint: "http://localhost:19071",
		Dimensions:     1536,
		Timeout:        30 * time.Second,
	}
}

// validateEndpoint accepts only absolute http(s) URLs and strips a trailing slash
func validateEndpoint(endpoint string) (string, error) {
	if endpoint == "" {
		return "", fmt.Errorf("endpoint is required")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("endpoint must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("endpoint has no host")
	}
	return strings.TrimSuffix(endpoint, "/"), nil
}
