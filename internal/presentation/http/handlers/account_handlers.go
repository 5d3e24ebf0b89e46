package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FleetPulse/fleetpulse-go/internal/application/filters"
	"github.com/FleetPulse/fleetpulse-go/internal/application/services"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/observability/logging"
)

// AccountHandlers contains the account analytics endpoints.
type AccountHandlers struct {
	accountAnalyticsService *services.AccountAnalyticsService
	filterStore             *filters.Store
	logger                  *logging.ChanneledLogger
}

// NewAccountHandlers creates account analytics handlers with injected dependencies
func NewAccountHandlers(accountAnalyticsService *services.AccountAnalyticsService, filterStore *filters.Store, logger *logging.ChanneledLogger) *AccountHandlers {
	return &AccountHandlers{
		accountAnalyticsService: accountAnalyticsService,
		filterStore:             filterStore,
		logger:                  logger,
	}
}

// HandleAccountAnalytics handles GET /api/v1/analytics/accounts
func (h *AccountHandlers) HandleAccountAnalytics(c *gin.Context) {
	state := filterStateFromQuery(c, h.filterStore)

	summaries, err := h.accountAnalyticsService.GetAccountAnalytics(c.Request.Context(), state.AccountCode, state, granularityFromQuery(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute account analytics"})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// HandleAccountSummary handles GET /api/v1/analytics/accounts/summary
func (h *AccountHandlers) HandleAccountSummary(c *gin.Context) {
	state := filterStateFromQuery(c, h.filterStore)

	summary, err := h.accountAnalyticsService.GetAccountSummary(c.Request.Context(), state.AccountCode, state)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute account summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
