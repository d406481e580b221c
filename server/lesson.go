package server

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"io"
	"lesson-generator/constant"
	"lesson-generator/dto"
	"lesson-generator/pkg/events"
	"lesson-generator/pkg/lessoncode"
	"lesson-generator/pkg/metrics"
	"lesson-generator/pkg/sandbox"
	"lesson-generator/pkg/transpiler"
	"lesson-generator/service"
	"net/http"
	"strings"
	"time"
)

const eventsHeartbeat = 15 * time.Second

type LessonHandler struct {
	orchestrator service.Service
	lessons      service.LessonService
	hub          *events.Hub
	runtime      sandbox.Runtime
	metrics      *metrics.Metrics
}

func NewLessonHandler(orchestrator service.Service, lessons service.LessonService, hub *events.Hub, runtime sandbox.Runtime) *LessonHandler {
	return &LessonHandler{
		orchestrator: orchestrator,
		lessons:      lessons,
		hub:          hub,
		runtime:      runtime,
		metrics:      metrics.NewMetrics(),
	}
}

// POST /lessons/generate
func (h *LessonHandler) Generate(c *gin.Context) {
	var req dto.GenerateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Outline) == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Success: false, Error: msgOutlineRequired})
		return
	}

	tier, ok := constant.ParseModelTier(req.Model)
	if !ok {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Success: false, Error: msgInvalidModel})
		return
	}

	lesson, err := h.orchestrator.Submit(c.Request.Context(), req.Outline, tier)
	if err != nil {
		respondError(c, err, msgStartFailed)
		return
	}

	message := "Lesson generation started"
	if lesson.Status.IsTerminal() {
		message = "Lesson generation finished"
	}
	c.JSON(http.StatusOK, dto.GenerateLessonResponse{
		Success:  true,
		LessonId: lesson.ID,
		Status:   lesson.Status,
		Message:  message,
	})
}

// GET /lessons/:id
func (h *LessonHandler) Get(c *gin.Context) {
	id, ok := lessonID(c)
	if !ok {
		return
	}

	lesson, err := h.lessons.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, msgFetchLesson)
		return
	}

	c.JSON(http.StatusOK, lesson)
}

// GET /lessons
func (h *LessonHandler) List(c *gin.Context) {
	lessons, err := h.lessons.List(c.Request.Context())
	if err != nil {
		respondError(c, err, msgFetchLessons)
		return
	}

	c.JSON(http.StatusOK, lessons)
}

// DELETE /lessons/:id
func (h *LessonHandler) Delete(c *gin.Context) {
	id, ok := lessonID(c)
	if !ok {
		return
	}

	if err := h.lessons.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, msgDeleteLesson)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// GET /lessons/:id/render
//
// The stored source is transpiled on every view; nothing derived from it is cached.
func (h *LessonHandler) Render(c *gin.Context) {
	id, ok := lessonID(c)
	if !ok {
		return
	}

	lesson, err := h.lessons.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, msgFetchLesson)
		return
	}

	switch {
	case lesson.Status == constant.LessonStatusGenerating:
		c.JSON(http.StatusConflict, dto.ErrorResponse{Success: false, Error: msgLessonGenerating})
		return
	case lesson.Status == constant.LessonStatusFailed || lesson.Content == nil:
		details := ""
		if lesson.ErrorMessage != nil {
			details = *lesson.ErrorMessage
		}
		c.JSON(http.StatusConflict, dto.ErrorResponse{Success: false, Error: msgLessonFailed, Details: details})
		return
	}

	c.Header("Content-Security-Policy", sandbox.ContentSecurityPolicy)
	c.Header("X-Content-Type-Options", "nosniff")

	result, err := transpiler.Transpile(*lesson.Content)
	if err != nil {
		h.metrics.Transpiles.WithLabelValues("render", "failure").Inc()
		zerolog.Ctx(c.Request.Context()).Warn().Err(err).Str("lesson_id", id.String()).Msg("stored lesson failed to transpile")
		c.Data(http.StatusUnprocessableEntity, "text/html; charset=utf-8", sandbox.RenderError(err.Error()))
		return
	}
	h.metrics.Transpiles.WithLabelValues("render", "success").Inc()

	page, err := sandbox.Render(h.runtime, result.JavaScript, lessoncode.EntryPoint)
	if err != nil {
		respondError(c, err, "Failed to render lesson")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// GET /lessons/:id/events
//
// Streams a "status" event with the current state, then one per transition,
// and ends once the lesson is terminal.
func (h *LessonHandler) Events(c *gin.Context) {
	id, ok := lessonID(c)
	if !ok {
		return
	}

	// subscribe before reading so a transition in between is not lost
	updates, unsubscribe := h.hub.Subscribe(id)
	defer unsubscribe()

	lesson, err := h.lessons.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, msgFetchLesson)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("status", service.EventFromLesson(lesson))
	c.Writer.Flush()
	if lesson.Status.IsTerminal() {
		return
	}

	heartbeat := time.NewTicker(eventsHeartbeat)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case <-heartbeat.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			return true
		case event, open := <-updates:
			if !open {
				return false
			}
			c.SSEvent("status", event)
			return !event.Status.IsTerminal()
		}
	})
}

func lessonID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Success: false, Error: msgLessonNotFound})
		return uuid.Nil, false
	}
	return id, true
}
