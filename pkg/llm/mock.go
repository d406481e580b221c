package llm

import (
	"context"
	"sync"
)

// Mock returns canned completions and records the requests it saw.
type Mock struct {
	mu       sync.Mutex
	response string
	err      error
	requests []Request
}

func NewMock(response string) *Mock {
	return &Mock{response: response}
}

func NewFailingMock(err error) *Mock {
	return &Mock{err: err}
}

func (m *Mock) Complete(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *Mock) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]Request(nil), m.requests...)
}
