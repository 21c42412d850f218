package mocks

import (
	"context"
	"sync"
)

// Post is a message captured by MockNotifier
type Post struct {
	Channel   string
	Text      string
	ThreadRef string
}

// MockNotifier records posted messages
type MockNotifier struct {
	mu    sync.Mutex
	posts []Post
	err   error
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Post(ctx context.Context, channel, text, threadRef string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = append(m.posts, Post{Channel: channel, Text: text, ThreadRef: threadRef})
	return m.err
}

func (m *MockNotifier) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockNotifier) Posts() []Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Post(nil), m.posts...)
}

// Texts returns the text of every post in order
func (m *MockNotifier) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.posts))
	for i, p := range m.posts {
		out[i] = p.Text
	}
	return out
}

// MockFileStore serves files from memory
type MockFileStore struct {
	mu        sync.Mutex
	files     map[string][]byte
	err       error
	downloads []string
}

func NewMockFileStore() *MockFileStore {
	return &MockFileStore{files: make(map[string][]byte)}
}

func (m *MockFileStore) Download(ctx context.Context, fileRef string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.downloads = append(m.downloads, fileRef)
	if m.err != nil {
		return nil, m.err
	}
	data, ok := m.files[fileRef]
	if !ok {
		return nil, context.DeadlineExceeded
	}
	return data, nil
}

func (m *MockFileStore) AddFile(ref string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[ref] = data
}

func (m *MockFileStore) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Downloads returns the refs passed to Download
func (m *MockFileStore) Downloads() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.downloads...)
}
