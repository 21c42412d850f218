package slack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	slackapi "github.com/slack-go/slack"
	"golang.org/x/time/rate"

	"github.com/k02miu/inner-rag/internal/core/ports/driven"
)

// Ensure Notifier implements driven.Notifier
var _ driven.Notifier = (*Notifier)(nil)

// Slack allows roughly one chat.postMessage per second per channel.
const (
	defaultPostsPerSecond = 1.0
	defaultPostBurst      = 3
	maxRetryAfter         = 30 * time.Second
)

// NotifierConfig configures the Slack notifier
type NotifierConfig struct {
	Client         *slackapi.Client
	PostsPerSecond float64
	Burst          int
	Logger         *slog.Logger
}

// Notifier posts thread replies through chat.postMessage
type Notifier struct {
	client  *slackapi.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewNotifier creates a rate limited Slack notifier
func NewNotifier(cfg NotifierConfig) *Notifier {
	rps := cfg.PostsPerSecond
	if rps <= 0 {
		rps = defaultPostsPerSecond
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultPostBurst
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Notifier{
		client:  cfg.Client,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  logger.With("component", "slack-notifier"),
	}
}

// Post sends text to channel, threaded under threadRef when non-empty.
// A rate limited response is retried once after the advertised delay.
func (n *Notifier) Post(ctx context.Context, channel, text, threadRef string) error {
	opts := []slackapi.MsgOption{slackapi.MsgOptionText(text, false)}
	if threadRef != "" {
		opts = append(opts, slackapi.MsgOptionTS(threadRef))
	}

	err := n.post(ctx, channel, opts)

	var rle *slackapi.RateLimitedError
	if errors.As(err, &rle) {
		wait := rle.RetryAfter
		if wait > maxRetryAfter {
			wait = maxRetryAfter
		}
		n.logger.Warn("rate limited by slack", "channel", channel, "retry_after", wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		err = n.post(ctx, channel, opts)
	}

	if err != nil {
		return fmt.Errorf("post message to %s: %w", channel, err)
	}
	return nil
}

func (n *Notifier) post(ctx context.Context, channel string, opts []slackapi.MsgOption) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}
	_, _, err := n.client.PostMessageContext(ctx, channel, opts...)
	return err
}
