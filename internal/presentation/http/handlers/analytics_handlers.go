package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/FleetPulse/fleetpulse-go/internal/application/filters"
	"github.com/FleetPulse/fleetpulse-go/internal/application/services"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/observability/logging"
)

// AnalyticsHandlers contains the sentiment, intent and usage endpoints.
type AnalyticsHandlers struct {
	analyticsService *services.AnalyticsService
	filterStore      *filters.Store
	logger           *logging.ChanneledLogger
}

// NewAnalyticsHandlers creates analytics handlers with injected dependencies
func NewAnalyticsHandlers(analyticsService *services.AnalyticsService, filterStore *filters.Store, logger *logging.ChanneledLogger) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		analyticsService: analyticsService,
		filterStore:      filterStore,
		logger:           logger,
	}
}

// HandleSentiment handles GET /api/v1/analytics/sentiment
func (h *AnalyticsHandlers) HandleSentiment(c *gin.Context) {
	start := time.Now()
	state := filterStateFromQuery(c, h.filterStore)

	if c.Query("groupBy") != "" {
		periods, err := h.analyticsService.GetSentimentByPeriod(c.Request.Context(), state, granularityFromQuery(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute sentiment"})
			return
		}
		c.JSON(http.StatusOK, periods)
		return
	}

	report, err := h.analyticsService.GetSentiment(c.Request.Context(), state)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute sentiment"})
		return
	}

	h.logger.Analytics().Debug("Served sentiment request", "duration", time.Since(start))
	c.JSON(http.StatusOK, report)
}

// HandleIntents handles GET /api/v1/analytics/intents
func (h *AnalyticsHandlers) HandleIntents(c *gin.Context) {
	state := filterStateFromQuery(c, h.filterStore)

	if c.Query("groupBy") != "" {
		periods, err := h.analyticsService.GetIntentsByPeriod(c.Request.Context(), state, granularityFromQuery(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute intents"})
			return
		}
		c.JSON(http.StatusOK, periods)
		return
	}

	dist, err := h.analyticsService.GetIntents(c.Request.Context(), state)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute intents"})
		return
	}
	c.JSON(http.StatusOK, dist)
}

// HandleTrends handles GET /api/v1/analytics/trends
func (h *AnalyticsHandlers) HandleTrends(c *gin.Context) {
	state := filterStateFromQuery(c, h.filterStore)

	trend, err := h.analyticsService.GetUsageTrends(c.Request.Context(), state, granularityFromQuery(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute usage trends"})
		return
	}
	c.JSON(http.StatusOK, trend)
}

// HandleAIUsage handles GET /api/v1/analytics/ai-usage
func (h *AnalyticsHandlers) HandleAIUsage(c *gin.Context) {
	state := filterStateFromQuery(c, h.filterStore)

	usage, err := h.analyticsService.GetAIUsage(c.Request.Context(), state, granularityFromQuery(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute usage"})
		return
	}
	c.JSON(http.StatusOK, usage)
}
