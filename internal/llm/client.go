package llm

import (
	"context"
	"sync"
)

// Request is one single-shot generation call.
type Request struct {
	// System carries the standing instructions (persona, output format)
	System string

	// User carries the rendered task with interpolated product data
	User string
}

// Client sends a request to a text generation service and returns the raw
// text of the first answer. Implementations make exactly one attempt.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// MockClient is a test implementation of Client
type MockClient struct {
	// CompleteFunc is called when Complete is invoked
	CompleteFunc func(ctx context.Context, req Request) (string, error)

	mu    sync.Mutex
	calls []Request
}

// Complete records the request and delegates to CompleteFunc
func (m *MockClient) Complete(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return "", nil
}

// Calls returns the requests seen so far
func (m *MockClient) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}
