// Package llm wraps the text-completion service behind a small interface.
package llm

import (
	"context"
	"fmt"
)

type Request struct {
	Model       string
	System      string
	User        string
	Temperature float32
}

type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Error is a completion failure reported by the provider.
type Error struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *Error) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}
