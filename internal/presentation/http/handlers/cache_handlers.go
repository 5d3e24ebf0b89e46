package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/caching/manager"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/observability/logging"
)

// CacheHandlers contains the cache introspection and invalidation endpoints.
type CacheHandlers struct {
	cacheManager *manager.Manager
	logger       *logging.ChanneledLogger
}

// NewCacheHandlers creates cache handlers with injected dependencies
func NewCacheHandlers(cacheManager *manager.Manager, logger *logging.ChanneledLogger) *CacheHandlers {
	return &CacheHandlers{
		cacheManager: cacheManager,
		logger:       logger,
	}
}

// HandleStatus handles GET /api/v1/cache/status
func (h *CacheHandlers) HandleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.cacheManager.RawAnalyticsStatus())
}

// HandleSessionsStatus handles GET /api/v1/cache/sessions/status
func (h *CacheHandlers) HandleSessionsStatus(c *gin.Context) {
	status := h.cacheManager.SessionsStatus(c.Query("startDate"), c.Query("endDate"))
	c.JSON(http.StatusOK, status)
}

// HandleClear handles POST /api/v1/cache/clear
func (h *CacheHandlers) HandleClear(c *gin.Context) {
	h.cacheManager.ClearRawAnalytics()
	h.logger.Cache().Info("Raw analytics cache cleared via API")
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// HandleSessionsClear handles POST /api/v1/cache/sessions/clear
func (h *CacheHandlers) HandleSessionsClear(c *gin.Context) {
	h.cacheManager.ClearSessions()
	h.cacheManager.ClearFeedback()
	h.logger.Cache().Info("Sessions and feedback caches cleared via API")
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
