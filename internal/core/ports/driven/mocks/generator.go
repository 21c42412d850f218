package mocks

import (
	"context"
	"sync"
)

// GenerateCall is one captured Complete invocation
type GenerateCall struct {
	Question string
	Context  string
}

// MockGenerator returns a canned answer
type MockGenerator struct {
	mu     sync.Mutex
	Answer string
	Err    error
	calls  []GenerateCall
}

func NewMockGenerator(answer string) *MockGenerator {
	return &MockGenerator{Answer: answer}
}

func (m *MockGenerator) Complete(ctx context.Context, question, contextBlock string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, GenerateCall{Question: question, Context: contextBlock})
	if m.Err != nil {
		return "", m.Err
	}
	return m.Answer, nil
}

func (m *MockGenerator) Model() string {
	return "mock-chat-model"
}

func (m *MockGenerator) Calls() []GenerateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]GenerateCall(nil), m.calls...)
}
