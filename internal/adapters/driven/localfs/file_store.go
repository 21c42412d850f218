package localfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/k02miu/inner-rag/internal/core/domain"
	"github.com/k02miu/inner-rag/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.FileStore = (*FileStore)(nil)

// DefaultMaxFileBytes caps a single local file read
const DefaultMaxFileBytes = 100 << 20

// FileStore reads attachments from the local filesystem. File refs are paths.
type FileStore struct {
	maxBytes int64
}

// NewFileStore creates a local file store. A non-positive maxBytes means
// DefaultMaxFileBytes.
func NewFileStore(maxBytes int64) *FileStore {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFileBytes
	}
	return &FileStore{maxBytes: maxBytes}
}

// Download reads the file at fileRef
func (s *FileStore) Download(ctx context.Context, fileRef string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(fileRef)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, fileRef)
	}
	if info.Size() > s.maxBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", domain.ErrInvalidInput, fileRef, info.Size(), s.maxBytes)
	}

	return os.ReadFile(fileRef)
}

// Attachment describes a local file the way a chat upload would be
// described, with the declared type taken from the extension.
func Attachment(path string) domain.Attachment {
	return domain.Attachment{
		Ref:          path,
		Name:         filepath.Base(path),
		DeclaredType: strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
	}
}
