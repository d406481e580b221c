package service

import (
	"errors"
	"lesson-generator/pkg/lessoncode"
	"lesson-generator/pkg/llm"
)

var (
	ErrEmptyOutline    = errors.New("outline is required")
	ErrConfiguration   = errors.New("text-completion service is not configured")
	ErrAlreadyTerminal = errors.New("lesson generation already finished")
)

const configurationMessage = "Lesson generation is not configured. Please add GEMINI_API_KEY to your environment variables."

// GenerationError is a failed completion call, normalized for display.
type GenerationError struct {
	Category llm.Category
	Message  string
	Err      error
}

func (e *GenerationError) Error() string {
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func newGenerationError(err error) *GenerationError {
	category := llm.Classify(err)
	return &GenerationError{Category: category, Message: category.UserMessage(), Err: err}
}

// isGenerationFailure reports whether err ends a lesson in the failed state,
// as opposed to an infrastructure error that leaves the record untouched.
func isGenerationFailure(err error) bool {
	var genErr *GenerationError
	var valErr *lessoncode.ValidationError
	return errors.As(err, &genErr) || errors.As(err, &valErr) || errors.Is(err, ErrConfiguration)
}

// UserMessage returns the text stored on a failed lesson for err.
func UserMessage(err error) string {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Message
	}
	var valErr *lessoncode.ValidationError
	if errors.As(err, &valErr) {
		return valErr.Message
	}
	if errors.Is(err, ErrConfiguration) {
		return configurationMessage
	}
	return "Generation failed"
}

// failureReason is a low-cardinality label for metrics.
func failureReason(err error) string {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return string(genErr.Category)
	}
	var valErr *lessoncode.ValidationError
	if errors.As(err, &valErr) {
		return string(valErr.Kind)
	}
	if errors.Is(err, ErrConfiguration) {
		return "configuration"
	}
	return "infrastructure"
}
