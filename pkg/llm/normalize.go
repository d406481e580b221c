package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

type Category string

const (
	CategoryInvalidCredential  Category = "invalid_credential"
	CategoryQuotaExceeded      Category = "quota_exceeded"
	CategoryBadRequest         Category = "bad_request"
	CategoryAccessDenied       Category = "access_denied"
	CategoryRateLimited        Category = "rate_limited"
	CategoryServiceUnavailable Category = "service_unavailable"
	CategoryUnknown            Category = "unknown"
)

var userMessages = map[Category]string{
	CategoryInvalidCredential:  "Invalid API key. Please check your configuration.",
	CategoryQuotaExceeded:      "API quota exceeded. Please try again later.",
	CategoryBadRequest:         "Invalid request. Please check your input and try again.",
	CategoryAccessDenied:       "Access denied. Please check your API key permissions.",
	CategoryRateLimited:        "Too many requests. Please wait a moment and try again.",
	CategoryServiceUnavailable: "Service temporarily unavailable. Please try again.",
	CategoryUnknown:            "Failed to generate lesson content",
}

// UserMessage is the text shown to users for a category.
func (c Category) UserMessage() string {
	if msg, ok := userMessages[c]; ok {
		return msg
	}
	return userMessages[CategoryUnknown]
}

// Classify maps a completion failure to one of the user-facing categories.
// Quota is checked before the status code since providers report it as 429.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "api key not valid"), strings.Contains(lower, "api_key_invalid"):
		return CategoryInvalidCredential
	case strings.Contains(lower, "quota"):
		return CategoryQuotaExceeded
	}

	status := 0
	var llmErr *Error
	if errors.As(err, &llmErr) {
		status = llmErr.StatusCode
	}

	switch {
	case status == http.StatusBadRequest || strings.Contains(msg, "400 Bad Request"):
		return CategoryBadRequest
	case status == http.StatusUnauthorized || status == http.StatusForbidden || strings.Contains(msg, "403"):
		return CategoryAccessDenied
	case status == http.StatusTooManyRequests || strings.Contains(msg, "429"):
		return CategoryRateLimited
	case status >= http.StatusInternalServerError || strings.Contains(msg, "500") || strings.Contains(msg, "503"):
		return CategoryServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return CategoryServiceUnavailable
	}

	return CategoryUnknown
}
