// Package server configures the HTTP server and routes.
package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/landmark-finder/internal/config"
	"github.com/fleveque/landmark-finder/internal/handler"
	"github.com/fleveque/landmark-finder/internal/middleware"
	"github.com/fleveque/landmark-finder/internal/storage"
)

// Deps are the collaborators the routes need. CallRepo is nil when the
// classification audit log is disabled; the admin routes are then absent.
type Deps struct {
	Finder   handler.ImageFinder
	CallRepo storage.ClassificationRepository
}

// RegisterRoutes sets up all HTTP routes on the Gin engine.
// Dependencies are passed explicitly; each handler gets exactly what it needs.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps, logger *zap.Logger) {
	healthHandler := handler.NewHealthHandler()
	galleryHandler := handler.NewGalleryHandler(deps.Finder, logger)
	searchHandler := handler.NewSearchHandler(deps.Finder)

	// Public endpoints (no auth)
	r.GET("/healthz", healthHandler.Healthz)
	r.GET("/", galleryHandler.Index)
	r.POST("/", galleryHandler.Submit)

	// CORS middleware applies to the entire API group.
	api := r.Group("/api/v1")
	api.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	authed := api.Group("")
	authed.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	{
		authed.GET("/search", searchHandler.Search)
		authed.POST("/search", searchHandler.Search)
	}

	if deps.CallRepo == nil {
		return
	}

	// Admin endpoints (separate auth with admin keys)
	adminHandler := handler.NewAdminHandler(deps.CallRepo, logger)
	admin := api.Group("/admin")
	admin.Use(middleware.AdminKeyAuth(cfg.Auth.AdminKeys))
	{
		admin.GET("/stats", adminHandler.Stats)
		admin.GET("/calls", adminHandler.Recent)
		admin.GET("/calls/:id", adminHandler.Call)
	}
}
