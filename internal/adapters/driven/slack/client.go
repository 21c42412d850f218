package slack

import (
	"net/http"
	"strings"
	"time"

	slackapi "github.com/slack-go/slack"
)

// ClientConfig configures the Slack Web API client
type ClientConfig struct {
	BotToken string
	// APIURL overrides the Web API base URL. Used by tests.
	APIURL  string
	Timeout time.Duration
}

// NewClient creates a Slack Web API client
func NewClient(cfg ClientConfig) *slackapi.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	opts := []slackapi.Option{
		slackapi.OptionHTTPClient(&http.Client{Timeout: timeout}),
	}
	if cfg.APIURL != "" {
		apiURL := cfg.APIURL
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		opts = append(opts, slackapi.OptionAPIURL(apiURL))
	}

	return slackapi.New(cfg.BotToken, opts...)
}
