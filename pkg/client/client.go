// Package client talks to the lesson HTTP API and drives a lesson from
// submission to a renderable sandbox document.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"io"
	"lesson-generator/dto"
	"lesson-generator/entities"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
	Details    interface{}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lesson api: %d %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Generate(ctx context.Context, outline, model string) (*dto.GenerateLessonResponse, error) {
	var out dto.GenerateLessonResponse
	err := c.do(ctx, http.MethodPost, "/lessons/generate", dto.GenerateLessonRequest{Outline: outline, Model: model}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Lesson(ctx context.Context, id uuid.UUID) (*entities.Lesson, error) {
	var out entities.Lesson
	if err := c.do(ctx, http.MethodGet, "/lessons/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Lessons(ctx context.Context) ([]entities.Lesson, error) {
	var out []entities.Lesson
	if err := c.do(ctx, http.MethodGet, "/lessons", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Delete(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/lessons/"+id.String(), nil, nil)
}

// Transpile asks the server to transpile code. A rejected source comes back
// as an *APIError whose Details lists the diagnostics.
func (c *Client) Transpile(ctx context.Context, code string) (*dto.TranspileResponse, error) {
	var out dto.TranspileResponse
	if err := c.do(ctx, http.MethodPost, "/transpile", dto.TranspileRequest{Code: code}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var envelope dto.ErrorResponse
		if json.Unmarshal(raw, &envelope) == nil && envelope.Error != "" {
			apiErr.Message = envelope.Error
			apiErr.Details = envelope.Details
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
