package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FleetPulse/fleetpulse-go/internal/application/filters"
	"github.com/FleetPulse/fleetpulse-go/internal/application/services"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/observability/logging"
)

// UserHandlers contains the user cohort endpoints.
type UserHandlers struct {
	userAnalyticsService *services.UserAnalyticsService
	filterStore          *filters.Store
	logger               *logging.ChanneledLogger
}

// NewUserHandlers creates user analytics handlers with injected dependencies
func NewUserHandlers(userAnalyticsService *services.UserAnalyticsService, filterStore *filters.Store, logger *logging.ChanneledLogger) *UserHandlers {
	return &UserHandlers{
		userAnalyticsService: userAnalyticsService,
		filterStore:          filterStore,
		logger:               logger,
	}
}

// HandleTotals handles GET /api/v1/analytics/users/totals
func (h *UserHandlers) HandleTotals(c *gin.Context) {
	state := filterStateFromQuery(c, h.filterStore)

	totals, err := h.userAnalyticsService.GetUserTotals(c.Request.Context(), state)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute user totals"})
		return
	}
	c.JSON(http.StatusOK, totals)
}

// HandleCreationTrends handles GET /api/v1/analytics/users/creation-trends.
// ?window=30d selects the rolling 30-day series.
func (h *UserHandlers) HandleCreationTrends(c *gin.Context) {
	if c.Query("window") == "30d" {
		trend, err := h.userAnalyticsService.GetCreationTrends30Days(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute creation trends"})
			return
		}
		c.JSON(http.StatusOK, trend)
		return
	}

	state := filterStateFromQuery(c, h.filterStore)
	trend, err := h.userAnalyticsService.GetCreationTrends(c.Request.Context(), state, granularityFromQuery(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute creation trends"})
		return
	}
	c.JSON(http.StatusOK, trend)
}

// HandleActiveTrends handles GET /api/v1/analytics/users/active-trends.
// ?window=30d selects the series that reconciles with the totals tile.
func (h *UserHandlers) HandleActiveTrends(c *gin.Context) {
	if c.Query("window") == "30d" {
		trend, err := h.userAnalyticsService.GetActiveTrends30Days(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute active trends"})
			return
		}
		c.JSON(http.StatusOK, trend)
		return
	}

	state := filterStateFromQuery(c, h.filterStore)
	trend, err := h.userAnalyticsService.GetActiveTrends(c.Request.Context(), state, granularityFromQuery(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute active trends"})
		return
	}
	c.JSON(http.StatusOK, trend)
}

// HandleRetention handles GET /api/v1/analytics/users/retention
func (h *UserHandlers) HandleRetention(c *gin.Context) {
	state := filterStateFromQuery(c, h.filterStore)

	trend, err := h.userAnalyticsService.GetRetentionTrends(c.Request.Context(), state, granularityFromQuery(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute retention trends"})
		return
	}
	c.JSON(http.StatusOK, trend)
}
