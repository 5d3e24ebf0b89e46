package services

import (
	"context"
	"time"

	"github.com/FleetPulse/fleetpulse-go/internal/domain/analytics"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/caching/manager"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/observability/logging"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/observability/performance"
)

// FeedbackService serves the product feedback rollup for a date window via
// the feedback cache.
type FeedbackService struct {
	cache       *manager.Manager
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewFeedbackService creates a new feedback service.
func NewFeedbackService(cache *manager.Manager, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *FeedbackService {
	return &FeedbackService{
		cache:       cache,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetProductFeedback returns the aggregated feedback report for the window.
func (s *FeedbackService) GetProductFeedback(ctx context.Context, startDate, endDate string) (*analytics.FeedbackReport, error) {
	start := time.Now()
	marker := s.perfTracker.StartOperation("get_product_feedback")
	defer marker.Complete()

	entries, err := s.cache.GetFeedback(ctx, startDate, endDate)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	report := analytics.AggregateFeedback(entries)
	marker.SetSuccess(true)
	s.logger.Analytics().Info("Computed feedback report", "entries", report.TotalEntries, "duration", time.Since(start))
	return report, nil
}
