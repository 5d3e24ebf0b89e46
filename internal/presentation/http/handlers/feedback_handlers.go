package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FleetPulse/fleetpulse-go/internal/application/filters"
	"github.com/FleetPulse/fleetpulse-go/internal/application/services"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/observability/logging"
)

// FeedbackHandlers contains the product feedback endpoint.
type FeedbackHandlers struct {
	feedbackService *services.FeedbackService
	filterStore     *filters.Store
	logger          *logging.ChanneledLogger
}

// NewFeedbackHandlers creates feedback handlers with injected dependencies
func NewFeedbackHandlers(feedbackService *services.FeedbackService, filterStore *filters.Store, logger *logging.ChanneledLogger) *FeedbackHandlers {
	return &FeedbackHandlers{
		feedbackService: feedbackService,
		filterStore:     filterStore,
		logger:          logger,
	}
}

// HandleProductFeedback handles GET /api/v1/feedback/product
func (h *FeedbackHandlers) HandleProductFeedback(c *gin.Context) {
	state := filterStateFromQuery(c, h.filterStore)

	report, err := h.feedbackService.GetProductFeedback(c.Request.Context(), state.StartDate, state.EndDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load product feedback"})
		return
	}
	c.JSON(http.StatusOK, report)
}
