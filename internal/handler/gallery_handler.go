package handler

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/landmark-finder/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// ImageFinder is what the handlers need from the landmark service.
type ImageFinder interface {
	ClassifyAndFetch(ctx context.Context, prompt string) []string
}

// Templates parses the embedded HTML templates for gin's renderer.
func Templates() (*template.Template, error) {
	return template.New("").
		Funcs(template.FuncMap{"isImageURL": isImageURL}).
		ParseFS(templateFS, "templates/*.html")
}

// isImageURL tells gallery entries that are links apart from messages.
func isImageURL(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}

// render runs one prompt through the finder and guarantees a non-empty
// gallery, whatever happened upstream.
func render(ctx context.Context, finder ImageFinder, prompt string) []string {
	results := finder.ClassifyAndFetch(ctx, prompt)
	if len(results) == 0 {
		return []string{model.MsgNoImages}
	}
	return results
}

// GalleryHandler serves the single-page UI: one text input, one button,
// one gallery.
type GalleryHandler struct {
	finder ImageFinder
	logger *zap.Logger
}

// NewGalleryHandler creates a new GalleryHandler.
func NewGalleryHandler(finder ImageFinder, logger *zap.Logger) *GalleryHandler {
	return &GalleryHandler{
		finder: finder,
		logger: logger,
	}
}

type galleryPage struct {
	Prompt  string
	Results []string
}

// Index renders the empty form.
// Route: GET /
func (h *GalleryHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", galleryPage{})
}

// Submit handles the button click: classify, fetch, render the gallery.
// Route: POST / (form field "prompt")
func (h *GalleryHandler) Submit(c *gin.Context) {
	prompt := strings.TrimSpace(c.PostForm("prompt"))
	if prompt == "" {
		// Nothing to classify; the gallery still gets an entry.
		c.HTML(http.StatusOK, "index.html", galleryPage{Results: []string{model.MsgNoImages}})
		return
	}

	results := render(c.Request.Context(), h.finder, prompt)
	h.logger.Info("gallery rendered",
		zap.String("prompt", prompt),
		zap.Int("results", len(results)),
	)

	c.HTML(http.StatusOK, "index.html", galleryPage{
		Prompt:  prompt,
		Results: results,
	})
}
