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

// AnalyticsService computes sentiment, intent and usage aggregates over the
// cached raw event set.
type AnalyticsService struct {
	cache       *manager.Manager
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(cache *manager.Manager, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AnalyticsService {
	return &AnalyticsService{
		cache:       cache,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// filteredEvents loads the raw event set and applies the filter state.
func (s *AnalyticsService) filteredEvents(ctx context.Context, state filters.FilterState) ([]analytics.RawEvent, error) {
	events, err := s.cache.GetRawEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load raw analytics: %w", err)
	}
	events = analytics.FilterByDateRange(events, state.StartDate, state.EndDate)
	events = analytics.FilterByAccountCode(events, state.AccountCode)
	events = analytics.FilterByUserID(events, state.UserID)
	return events, nil
}

// GetSentiment computes the sentiment report for the filter state.
func (s *AnalyticsService) GetSentiment(ctx context.Context, state filters.FilterState) (*analytics.SentimentReport, error) {
	start := time.Now()
	marker := s.perfTracker.StartOperation("get_sentiment")
	defer marker.Complete()

	events, err := s.filteredEvents(ctx, state)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	report := analytics.AggregateSentiments(events)
	marker.SetSuccess(true)
	s.logger.Analytics().Info("Computed sentiment report", "events", len(events), "totalQueries", report.TotalQueries, "duration", time.Since(start))
	return report, nil
}

// GetSentimentByPeriod computes per-period sentiment snapshots with
// satisfaction trend deltas.
func (s *AnalyticsService) GetSentimentByPeriod(ctx context.Context, state filters.FilterState, g analytics.Granularity) ([]analytics.PeriodSentiment, error) {
	marker := s.perfTracker.StartOperation("get_sentiment_by_period")
	defer marker.Complete()

	events, err := s.filteredEvents(ctx, state)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	periods := analytics.AggregateSentimentsByPeriod(events, g)
	marker.SetSuccess(true)
	return periods, nil
}

// GetIntents computes the merged intent distribution for the filter state.
func (s *AnalyticsService) GetIntents(ctx context.Context, state filters.FilterState) (*analytics.IntentDistribution, error) {
	start := time.Now()
	marker := s.perfTracker.StartOperation("get_intents")
	defer marker.Complete()

	events, err := s.filteredEvents(ctx, state)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	dist := analytics.AggregateIntents(events, analytics.DefaultMergeRules)
	marker.SetSuccess(true)
	s.logger.Analytics().Info("Computed intent distribution", "events", len(events), "intents", len(dist.Intents), "duration", time.Since(start))
	return dist, nil
}

// GetIntentsByPeriod computes one intent distribution per period.
func (s *AnalyticsService) GetIntentsByPeriod(ctx context.Context, state filters.FilterState, g analytics.Granularity) ([]analytics.PeriodIntents, error) {
	marker := s.perfTracker.StartOperation("get_intents_by_period")
	defer marker.Complete()

	events, err := s.filteredEvents(ctx, state)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	periods := analytics.AggregateIntentsByPeriod(events, g, analytics.DefaultMergeRules)
	marker.SetSuccess(true)
	return periods, nil
}

// GetUsageTrends computes the query-volume trend for the filter state.
func (s *AnalyticsService) GetUsageTrends(ctx context.Context, state filters.FilterState, g analytics.Granularity) ([]analytics.TrendPoint, error) {
	marker := s.perfTracker.StartOperation("get_usage_trends")
	defer marker.Complete()

	events, err := s.filteredEvents(ctx, state)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	trend := analytics.AggregateQueryTrends(events, g, state.StartDate, state.EndDate)
	marker.SetSuccess(true)
	return trend, nil
}

// GetAIUsage computes per-period query volume with growth rates.
func (s *AnalyticsService) GetAIUsage(ctx context.Context, state filters.FilterState, g analytics.Granularity) ([]analytics.UsagePoint, error) {
	start := time.Now()
	marker := s.perfTracker.StartOperation("get_ai_usage")
	defer marker.Complete()

	events, err := s.filteredEvents(ctx, state)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	usage := analytics.AggregateAIUsage(events, g, state.StartDate, state.EndDate)
	marker.SetSuccess(true)
	s.logger.Perf().Info("Performance for GetAIUsage", "duration", time.Since(start), "periods", len(usage))
	return usage, nil
}
