package services

import (
	"context"
	"time"

	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/caching/manager"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/observability/logging"
)

// WarmingService prefetches the raw analytics set and the current month's
// sessions so the first dashboard load hits a warm cache.
type WarmingService struct {
	cache  *manager.Manager
	logger *logging.ChanneledLogger
	now    func() time.Time
}

// NewWarmingService creates a new warming service.
func NewWarmingService(cache *manager.Manager, logger *logging.ChanneledLogger, now func() time.Time) *WarmingService {
	if now == nil {
		now = time.Now
	}
	return &WarmingService{
		cache:  cache,
		logger: logger,
		now:    now,
	}
}

// Warm performs the startup prefetch. Failures are logged, not fatal; the
// caches fall back to lazy population on first request.
func (s *WarmingService) Warm(ctx context.Context) {
	start := time.Now()

	if _, err := s.cache.GetRawEvents(ctx); err != nil {
		s.logger.Cache().Warn("Raw analytics warm-up failed", "error", err.Error())
	}

	startDate, endDate := s.currentMonthWindow()
	if _, err := s.cache.GetSessions(ctx, startDate, endDate); err != nil {
		s.logger.Cache().Warn("Sessions warm-up failed", "window", startDate+".."+endDate, "error", err.Error())
	}

	s.logger.Cache().Info("Cache warm-up complete", "duration", time.Since(start))
}

func (s *WarmingService) currentMonthWindow() (string, string) {
	now := s.now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.Format("2006-01-02"), now.Format("2006-01-02")
}
