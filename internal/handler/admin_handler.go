package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/landmark-finder/internal/storage"
)

// AdminHandler handles administrative endpoints over the classification audit log.
type AdminHandler struct {
	callRepo storage.ClassificationRepository
	logger   *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(callRepo storage.ClassificationRepository, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		callRepo: callRepo,
		logger:   logger,
	}
}

// Stats returns classification call counts, total and per strategy.
// Route: GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	total, err := h.callRepo.Count(ctx)
	if err != nil {
		h.logger.Error("counting classification calls", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	byStrategy, err := h.callRepo.CountByStrategy(ctx)
	if err != nil {
		h.logger.Error("counting classification calls by strategy", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	strategies := make(map[string]int64, len(byStrategy))
	for _, row := range byStrategy {
		key := row.Strategy
		if key == "" {
			key = "unclassified"
		}
		strategies[key] = row.Count
	}

	c.JSON(http.StatusOK, gin.H{
		"total":      total,
		"strategies": strategies,
	})
}

// Recent lists the latest classification calls, newest first.
// Route: GET /api/v1/admin/calls?limit=20
func (h *AdminHandler) Recent(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 200 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 200"})
		return
	}

	calls, err := h.callRepo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("listing classification calls", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"calls": calls})
}

// Call returns one classification call by ID.
// Route: GET /api/v1/admin/calls/:id
func (h *AdminHandler) Call(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
		return
	}

	call, err := h.callRepo.GetByID(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "classification call not found"})
		return
	}
	if err != nil {
		h.logger.Error("getting classification call", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, call)
}
