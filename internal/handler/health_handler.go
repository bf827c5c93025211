// Package handler contains HTTP request handlers.
// In Gin, a handler is any function with signature func(*gin.Context);
// handlers are grouped by file, one struct per concern.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check requests.
type HealthHandler struct{}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Healthz responds with service status. It does not touch the LLM or
// Google APIs, so it stays cheap enough for liveness checks.
func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "landmark-finder",
	})
}
