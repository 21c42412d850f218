package driven

import (
	"context"
)

// Notifier posts messages back into a chat thread
type Notifier interface {
	// Post sends text to channel, threaded under threadRef when non-empty
	Post(ctx context.Context, channel, text, threadRef string) error
}

// FileStore downloads files shared in chat
type FileStore interface {
	// Download returns the raw bytes of the file identified by fileRef
	Download(ctx context.Context, fileRef string) ([]byte, error)
}
