package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SearchHandler exposes the landmark pipeline as JSON for non-browser clients.
type SearchHandler struct {
	finder ImageFinder
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(finder ImageFinder) *SearchHandler {
	return &SearchHandler{finder: finder}
}

type searchRequest struct {
	Prompt string `json:"prompt" form:"prompt"`
}

type searchResponse struct {
	Prompt string   `json:"prompt"`
	Images []string `json:"images"`
}

// Search runs one prompt and returns the gallery entries.
// Routes: GET /api/v1/search?prompt=... and POST /api/v1/search {"prompt": "..."}
//
// Upstream failures are not HTTP errors: they arrive as a single message in
// images, exactly as the UI would show them.
func (h *SearchHandler) Search(c *gin.Context) {
	var req searchRequest
	// ShouldBind picks query/form binding for GET and JSON for POST bodies.
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}

	c.JSON(http.StatusOK, searchResponse{
		Prompt: prompt,
		Images: render(c.Request.Context(), h.finder, prompt),
	})
}
