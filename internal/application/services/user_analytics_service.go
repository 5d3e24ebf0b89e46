package services

import (
	"context"
	"fmt"
	"time"

	"github.com/FleetPulse/fleetpulse-go/internal/application/filters"
	"github.com/FleetPulse/fleetpulse-go/internal/domain/analytics"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/caching/manager"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/observability/logging"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/observability/performance"
)

// UserAnalyticsService computes user cohort aggregates. Totals and retention
// derive from the full unfiltered event history; trend series honor the date
// range from the filter state.
type UserAnalyticsService struct {
	cache       *manager.Manager
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
	now         func() time.Time
}

// NewUserAnalyticsService creates a new user analytics service. The now func
// is injectable for deterministic tests; nil means wall clock.
func NewUserAnalyticsService(cache *manager.Manager, logger *logging.ChanneledLogger, perfTracker *performance.Tracker, now func() time.Time) *UserAnalyticsService {
	if now == nil {
		now = time.Now
	}
	return &UserAnalyticsService{
		cache:       cache,
		logger:      logger,
		perfTracker: perfTracker,
		now:         now,
	}
}

func (s *UserAnalyticsService) history(ctx context.Context) ([]analytics.RawEvent, error) {
	events, err := s.cache.GetRawEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load raw analytics: %w", err)
	}
	return events, nil
}

// GetUserTotals computes the user summary tile figures.
func (s *UserAnalyticsService) GetUserTotals(ctx context.Context, state filters.FilterState) (analytics.UserTotals, error) {
	start := time.Now()
	marker := s.perfTracker.StartOperation("get_user_totals")
	defer marker.Complete()

	history, err := s.history(ctx)
	if err != nil {
		marker.SetError(err)
		return analytics.UserTotals{}, err
	}

	totals := analytics.ComputeUserTotals(history, state.StartDate, state.EndDate, s.now())
	marker.SetSuccess(true)
	s.logger.Analytics().Info("Computed user totals", "totalUsers", totals.TotalUsers, "activeUsers", totals.ActiveUsers, "duration", time.Since(start))
	return totals, nil
}

// GetCreationTrends computes the new-user trend within the filtered range.
func (s *UserAnalyticsService) GetCreationTrends(ctx context.Context, state filters.FilterState, g analytics.Granularity) ([]analytics.TrendPoint, error) {
	marker := s.perfTracker.StartOperation("get_user_creation_trends")
	defer marker.Complete()

	history, err := s.history(ctx)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	trend := analytics.UserCreationTrends(history, state.StartDate, state.EndDate, g)
	marker.SetSuccess(true)
	return trend, nil
}

// GetCreationTrends30Days computes the rolling 30-day new-user trend.
func (s *UserAnalyticsService) GetCreationTrends30Days(ctx context.Context) ([]analytics.TrendPoint, error) {
	marker := s.perfTracker.StartOperation("get_user_creation_trends_30d")
	defer marker.Complete()

	history, err := s.history(ctx)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	trend := analytics.UserCreationTrends30Days(history, s.now())
	marker.SetSuccess(true)
	return trend, nil
}

// GetActiveTrends computes the per-period distinct active user trend within
// the filtered range.
func (s *UserAnalyticsService) GetActiveTrends(ctx context.Context, state filters.FilterState, g analytics.Granularity) ([]analytics.TrendPoint, error) {
	marker := s.perfTracker.StartOperation("get_user_active_trends")
	defer marker.Complete()

	history, err := s.history(ctx)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	trend := analytics.UserActiveTrends(history, state.StartDate, state.EndDate, g)
	marker.SetSuccess(true)
	return trend, nil
}

// GetActiveTrends30Days computes the 30-day active trend that reconciles
// exactly with the ActiveUsers total.
func (s *UserAnalyticsService) GetActiveTrends30Days(ctx context.Context) ([]analytics.TrendPoint, error) {
	marker := s.perfTracker.StartOperation("get_user_active_trends_30d")
	defer marker.Complete()

	history, err := s.history(ctx)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	trend := analytics.UserActiveTrends30Days(history, s.now())
	marker.SetSuccess(true)
	return trend, nil
}

// GetRetentionTrends computes per-period retention over the cumulative
// distinct user base.
func (s *UserAnalyticsService) GetRetentionTrends(ctx context.Context, state filters.FilterState, g analytics.Granularity) ([]analytics.RetentionPoint, error) {
	start := time.Now()
	marker := s.perfTracker.StartOperation("get_user_retention_trends")
	defer marker.Complete()

	history, err := s.history(ctx)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	events := analytics.FilterByDateRange(history, state.StartDate, state.EndDate)
	trend := analytics.UserRetentionTrends(events, g)
	marker.SetSuccess(true)
	s.logger.Perf().Info("Performance for GetRetentionTrends", "duration", time.Since(start), "periods", len(trend))
	return trend, nil
}
