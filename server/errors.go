package server

import (
	"errors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"lesson-generator/dto"
	"lesson-generator/repository"
	"lesson-generator/service"
	"net/http"
)

const (
	msgOutlineRequired  = "Outline is required"
	msgInvalidModel     = "Model must be one of: smart, fast"
	msgLessonNotFound   = "Lesson not found"
	msgStartFailed      = "Failed to start lesson generation"
	msgFetchLesson      = "Failed to fetch lesson"
	msgFetchLessons     = "Failed to fetch lessons"
	msgDeleteLesson     = "Failed to delete lesson"
	msgNoCode           = "No code provided"
	msgTranspileFailed  = "Transpilation failed"
	msgLessonGenerating = "Lesson is still generating"
	msgLessonFailed     = "Lesson generation failed"
)

// respondError maps err to a status code and writes the error envelope.
// fallback is the message shown for infrastructure errors.
func respondError(c *gin.Context, err error, fallback string) {
	status, message := classify(err, fallback)
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
	}

	c.JSON(status, dto.ErrorResponse{Success: false, Error: message})
}

func classify(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, service.ErrEmptyOutline):
		return http.StatusBadRequest, msgOutlineRequired
	case errors.Is(err, service.ErrConfiguration):
		return http.StatusServiceUnavailable, service.UserMessage(err)
	case errors.Is(err, repository.ErrLessonNotFound):
		return http.StatusNotFound, msgLessonNotFound
	default:
		return http.StatusInternalServerError, fallback
	}
}
