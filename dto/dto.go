package dto

import (
	"github.com/google/uuid"
	"lesson-generator/constant"
	"time"
)

type GenerateLessonRequest struct {
	Outline string `json:"outline" binding:"required"`
	Model   string `json:"model"`
}

type GenerateLessonResponse struct {
	Success  bool                  `json:"success"`
	LessonId uuid.UUID             `json:"lessonId"`
	Status   constant.LessonStatus `json:"status"`
	Message  string                `json:"message,omitempty"`
}

type TranspileRequest struct {
	Code string `json:"code"`
}

type TranspileResponse struct {
	Success    bool     `json:"success"`
	JavaScript string   `json:"javascript"`
	Warnings   []string `json:"warnings,omitempty"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// LessonEvent announces a lesson status change to subscribers.
type LessonEvent struct {
	LessonId     uuid.UUID             `json:"lessonId"`
	Status       constant.LessonStatus `json:"status"`
	Title        string                `json:"title"`
	ErrorMessage string                `json:"errorMessage,omitempty"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}
