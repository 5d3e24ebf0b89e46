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

// AccountAnalyticsService computes account-scoped query aggregates.
type AccountAnalyticsService struct {
	cache       *manager.Manager
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewAccountAnalyticsService creates a new account analytics service.
func NewAccountAnalyticsService(cache *manager.Manager, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AccountAnalyticsService {
	return &AccountAnalyticsService{
		cache:       cache,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetAccountAnalytics computes per-period summaries for an account code
// within the filtered range. The account filter is a case-insensitive
// substring match.
func (s *AccountAnalyticsService) GetAccountAnalytics(ctx context.Context, accountCode string, state filters.FilterState, g analytics.Granularity) ([]analytics.AccountPeriodSummary, error) {
	start := time.Now()
	marker := s.perfTracker.StartOperation("get_account_analytics")
	defer marker.Complete()

	events, err := s.cache.GetRawEvents(ctx)
	if err != nil {
		marker.SetError(err)
		return nil, fmt.Errorf("failed to load raw analytics: %w", err)
	}
	events = analytics.FilterByUserID(events, state.UserID)

	summaries := analytics.AggregateAccountAnalytics(events, accountCode, g, state.StartDate, state.EndDate)
	marker.SetSuccess(true)
	s.logger.Analytics().Info("Computed account analytics", "accountCode", accountCode, "periods", len(summaries), "duration", time.Since(start))
	return summaries, nil
}

// GetAccountSummary computes the rollup figures for one account over the
// filtered range, including its busiest day.
func (s *AccountAnalyticsService) GetAccountSummary(ctx context.Context, accountCode string, state filters.FilterState) (analytics.AccountSummary, error) {
	marker := s.perfTracker.StartOperation("get_account_summary")
	defer marker.Complete()

	events, err := s.cache.GetRawEvents(ctx)
	if err != nil {
		marker.SetError(err)
		return analytics.AccountSummary{}, fmt.Errorf("failed to load raw analytics: %w", err)
	}
	events = analytics.FilterByDateRange(events, state.StartDate, state.EndDate)
	events = analytics.FilterByUserID(events, state.UserID)

	summary := analytics.SummarizeAccount(events, accountCode)
	marker.SetSuccess(true)
	return summary, nil
}
