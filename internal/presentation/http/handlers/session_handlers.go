package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FleetPulse/fleetpulse-go/internal/application/filters"
	"github.com/FleetPulse/fleetpulse-go/internal/application/services"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/observability/logging"
)

// SessionHandlers contains the session listing endpoint.
type SessionHandlers struct {
	sessionService *services.SessionService
	filterStore    *filters.Store
	logger         *logging.ChanneledLogger
}

// NewSessionHandlers creates session handlers with injected dependencies
func NewSessionHandlers(sessionService *services.SessionService, filterStore *filters.Store, logger *logging.ChanneledLogger) *SessionHandlers {
	return &SessionHandlers{
		sessionService: sessionService,
		filterStore:    filterStore,
		logger:         logger,
	}
}

// HandleSessions handles GET /api/v1/sessions
func (h *SessionHandlers) HandleSessions(c *gin.Context) {
	state := filterStateFromQuery(c, h.filterStore)

	payload, err := h.sessionService.GetSessions(c.Request.Context(), state)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sessions"})
		return
	}
	c.JSON(http.StatusOK, payload)
}
