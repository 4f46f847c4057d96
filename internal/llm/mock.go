package llm

import (
	"context"
	"sync"
)

// MockResponse is a canned reply for MockProvider.
type MockResponse struct {
	Text string
	Err  error
}

// MockProvider is a deterministic Provider for tests and offline runs.
// It returns canned responses in FIFO order, repeats the last one once the
// queue is drained, and records every request.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	last      *MockResponse
	calls     []Request
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)

	var resp MockResponse
	switch {
	case len(m.responses) > 0:
		resp = m.responses[0]
		m.responses = m.responses[1:]
		m.last = &resp
	case m.last != nil:
		resp = *m.last
	default:
		return nil, &ErrProviderUnavailable{Provider: "mock"}
	}

	if resp.Err != nil {
		return nil, resp.Err
	}
	return &Response{Text: resp.Text, Model: "mock"}, nil
}

func (m *MockProvider) ModelID() string {
	return "mock"
}

// Calls returns a copy of every request received so far.
func (m *MockProvider) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}

// unavailableProvider stands in for a provider whose credentials are missing.
type unavailableProvider struct {
	name string
	err  error
}

func (u *unavailableProvider) Generate(context.Context, Request) (*Response, error) {
	return nil, &ErrProviderUnavailable{Provider: u.name, Err: u.err}
}

func (u *unavailableProvider) ModelID() string {
	return u.name + "-unavailable"
}
