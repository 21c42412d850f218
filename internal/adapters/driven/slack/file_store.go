package slack

import (
	"bytes"
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"

	"github.com/k02miu/inner-rag/internal/core/ports/driven"
)

// Ensure FileStore implements driven.FileStore
var _ driven.FileStore = (*FileStore)(nil)

// FileStore downloads files shared in Slack.
// The private download URL is resolved through files.info and fetched
// with the bot token.
type FileStore struct {
	client *slackapi.Client
}

// NewFileStore creates a Slack file store
func NewFileStore(client *slackapi.Client) *FileStore {
	return &FileStore{client: client}
}

// Download returns the raw bytes of the file identified by fileRef
func (s *FileStore) Download(ctx context.Context, fileRef string) ([]byte, error) {
	file, _, _, err := s.client.GetFileInfoContext(ctx, fileRef, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("get file info %s: %w", fileRef, err)
	}

	url := file.URLPrivateDownload
	if url == "" {
		url = file.URLPrivate
	}
	if url == "" {
		return nil, fmt.Errorf("file %s has no download url", fileRef)
	}

	var buf bytes.Buffer
	if err := s.client.GetFileContext(ctx, url, &buf); err != nil {
		return nil, fmt.Errorf("download file %s: %w", fileRef, err)
	}
	return buf.Bytes(), nil
}
