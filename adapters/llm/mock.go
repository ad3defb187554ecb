package llm

import (
	"context"
	"sync"

	"exportlens/ports"
)

// MockCompleter is a canned completer for tests and offline runs
type MockCompleter struct {
	Response string // Set this for testing
	Error    error  // Set this to simulate errors

	mu       sync.Mutex
	requests []ports.CompletionRequest
}

func (m *MockCompleter) Complete(ctx context.Context, req ports.CompletionRequest) (*ports.CompletionResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.Error != nil {
		return nil, m.Error
	}
	return &ports.CompletionResponse{Content: m.Response}, nil
}

// Requests returns the requests received so far
func (m *MockCompleter) Requests() []ports.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ports.CompletionRequest, len(m.requests))
	copy(out, m.requests)
	return out
}
