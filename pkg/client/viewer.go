package client

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"lesson-generator/constant"
	"lesson-generator/entities"
	"lesson-generator/pkg/lessoncode"
	"lesson-generator/pkg/sandbox"
	"net/http"
	"strings"
	"sync"
	"time"
)

const DefaultPollInterval = 5 * time.Second

type ViewState string

const (
	StateIdle             ViewState = "idle"
	StateFetching         ViewState = "fetching"
	StateWaiting          ViewState = "waiting"
	StateTranspiling      ViewState = "transpiling"
	StateReady            ViewState = "ready"
	StateTranspileFailed  ViewState = "transpile_failed"
	StateGenerationFailed ViewState = "generation_failed"
)

// View is what a viewer shows once it stops: the sandbox document when the
// lesson is ready, otherwise the reason it could not be shown.
type View struct {
	State    ViewState
	Lesson   *entities.Lesson
	Document []byte
	Error    string
}

// Viewer loads one lesson, waits while it generates, transpiles the stored
// source and wraps the result in a sandbox document. Transpilation runs on
// every Show; its output is never kept.
type Viewer struct {
	client   *Client
	runtime  sandbox.Runtime
	interval time.Duration

	mu    sync.Mutex
	state ViewState

	// OnState, when set, is called on every state change.
	OnState func(ViewState)
}

func NewViewer(client *Client, runtime sandbox.Runtime, interval time.Duration) *Viewer {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Viewer{
		client:   client,
		runtime:  runtime,
		interval: interval,
		state:    StateIdle,
	}
}

func (v *Viewer) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *Viewer) setState(s ViewState) {
	v.mu.Lock()
	v.state = s
	hook := v.OnState
	v.mu.Unlock()
	if hook != nil {
		hook(s)
	}
}

// Show runs the state machine for id until the lesson is ready or has failed.
// It returns an error only when the lesson cannot be fetched or ctx ends; in
// that case the viewer is back to idle.
func (v *Viewer) Show(ctx context.Context, id uuid.UUID) (*View, error) {
	logger := zerolog.Ctx(ctx).With().Str("lesson_id", id.String()).Logger()

	v.setState(StateFetching)
	lesson, err := v.client.Lesson(ctx, id)
	if err != nil {
		v.setState(StateIdle)
		return nil, err
	}

	if lesson.Status == constant.LessonStatusGenerating {
		v.setState(StateWaiting)
		lesson, err = v.wait(ctx, id)
		if err != nil {
			v.setState(StateIdle)
			return nil, err
		}
	}

	if lesson.Status == constant.LessonStatusFailed {
		v.setState(StateGenerationFailed)
		message := "Generation failed"
		if lesson.ErrorMessage != nil {
			message = *lesson.ErrorMessage
		}
		return &View{State: StateGenerationFailed, Lesson: lesson, Error: message}, nil
	}

	if lesson.Content == nil {
		v.setState(StateGenerationFailed)
		return &View{State: StateGenerationFailed, Lesson: lesson, Error: "Lesson has no content"}, nil
	}

	v.setState(StateTranspiling)
	result, err := v.client.Transpile(ctx, *lesson.Content)
	if err != nil {
		// only a 400 carries diagnostics for the source; anything else is the server failing
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
			v.setState(StateIdle)
			return nil, err
		}
		logger.Warn().Err(err).Msg("lesson failed to transpile")
		v.setState(StateTranspileFailed)
		message := fmt.Sprintf("Failed to transpile code: %s", apiErr.Message)
		if diags := diagnostics(apiErr.Details); len(diags) > 0 {
			message += "\n" + strings.Join(diags, "\n")
		}
		return &View{State: StateTranspileFailed, Lesson: lesson, Document: sandbox.RenderError(message), Error: message}, nil
	}

	doc, err := sandbox.Render(v.runtime, result.JavaScript, lessoncode.EntryPoint)
	if err != nil {
		v.setState(StateIdle)
		return nil, err
	}

	v.setState(StateReady)
	logger.Debug().Int("document_bytes", len(doc)).Msg("lesson ready")
	return &View{State: StateReady, Lesson: lesson, Document: doc}, nil
}

// diagnostics flattens the details of a transpile error as decoded from JSON.
func diagnostics(details interface{}) []string {
	switch d := details.(type) {
	case string:
		if d == "" {
			return nil
		}
		return []string{d}
	case []string:
		return d
	case []interface{}:
		out := make([]string, 0, len(d))
		for _, item := range d {
			if text, ok := item.(string); ok {
				out = append(out, text)
			}
		}
		return out
	default:
		return nil
	}
}

// wait polls until the lesson leaves the generating state.
func (v *Viewer) wait(ctx context.Context, id uuid.UUID) (*entities.Lesson, error) {
	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			lesson, err := v.client.Lesson(ctx, id)
			if err != nil {
				return nil, err
			}
			if lesson.Status.IsTerminal() {
				return lesson, nil
			}
			zerolog.Ctx(ctx).Debug().Str("lesson_id", id.String()).Msg("lesson still generating")
		}
	}
}
