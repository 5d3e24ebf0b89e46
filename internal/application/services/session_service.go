package services

import (
	"context"
	"time"

	"github.com/FleetPulse/fleetpulse-go/internal/application/filters"
	"github.com/FleetPulse/fleetpulse-go/internal/domain/analytics"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/caching/manager"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/observability/logging"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/observability/performance"
)

// SessionService serves session payloads for a date window via the sessions
// cache, with account and user filtering applied after retrieval.
type SessionService struct {
	cache       *manager.Manager
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewSessionService creates a new session service.
func NewSessionService(cache *manager.Manager, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *SessionService {
	return &SessionService{
		cache:       cache,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetSessions returns the filtered sessions payload for the filter state's
// date window.
func (s *SessionService) GetSessions(ctx context.Context, state filters.FilterState) (analytics.SessionsPayload, error) {
	start := time.Now()
	marker := s.perfTracker.StartOperation("get_sessions")
	defer marker.Complete()

	payload, err := s.cache.GetSessions(ctx, state.StartDate, state.EndDate)
	if err != nil {
		marker.SetError(err)
		return analytics.SessionsPayload{}, err
	}

	filtered := analytics.FilterSessions(payload, state.AccountCode, state.UserID)
	marker.SetSuccess(true)
	s.logger.Analytics().Info("Served sessions", "window", state.StartDate+".."+state.EndDate, "total", filtered.TotalSessions, "duration", time.Since(start))
	return filtered, nil
}
