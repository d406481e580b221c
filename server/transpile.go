package server

import (
	"errors"
	"github.com/gin-gonic/gin"
	"lesson-generator/dto"
	"lesson-generator/pkg/metrics"
	"lesson-generator/pkg/transpiler"
	"net/http"
	"strings"
)

type TranspileHandler struct {
	metrics *metrics.Metrics
}

func NewTranspileHandler() *TranspileHandler {
	return &TranspileHandler{metrics: metrics.NewMetrics()}
}

// POST /transpile
func (h *TranspileHandler) Transpile(c *gin.Context) {
	var req dto.TranspileRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Code) == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Success: false, Error: msgNoCode})
		return
	}

	result, err := transpiler.Transpile(req.Code)
	if err != nil {
		h.metrics.Transpiles.WithLabelValues("api", "failure").Inc()
		var tErr *transpiler.TranspileError
		if errors.As(err, &tErr) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Success: false, Error: msgTranspileFailed, Details: tErr.Diagnostics})
			return
		}
		respondError(c, err, msgTranspileFailed)
		return
	}
	h.metrics.Transpiles.WithLabelValues("api", "success").Inc()

	c.JSON(http.StatusOK, dto.TranspileResponse{
		Success:    true,
		JavaScript: result.JavaScript,
		Warnings:   result.Warnings,
	})
}
