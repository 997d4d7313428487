package ai

import (
	"context"
	"encoding/json"
	"sync"
)

// MockProvider is an in-memory Provider for tests. It returns the queued
// responses in order, or Err when set.
type MockProvider struct {
	mu        sync.Mutex
	Responses []json.RawMessage
	Err       error
	Requests  []Request

	callCount int
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}

	idx := m.callCount
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	m.callCount++

	var content json.RawMessage
	if idx >= 0 {
		content = m.Responses[idx]
	}
	if req.Schema != nil {
		if err := validateResponse(req.Schema, content); err != nil {
			return nil, err
		}
	}
	return &Response{Content: content, Model: m.ModelID()}, nil
}

func (m *MockProvider) ModelID() string {
	return "mock"
}

// Calls returns how many times Generate was invoked.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}
