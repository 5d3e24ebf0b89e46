// Package manager provides the unified cache facade handed to services.
package manager

import (
	"context"
	"time"

	"github.com/FleetPulse/fleetpulse-go/internal/domain/analytics"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/caching/stores"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/caching/types"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/observability/logging"
)

// Config carries the cache TTLs.
type Config struct {
	RawAnalyticsTTL time.Duration
	SessionsTTL     time.Duration
	FeedbackTTL     time.Duration
}

// Fetchers bundles the upstream retrieval functions the stores wrap.
type Fetchers struct {
	RawAnalytics stores.RawFetchFunc
	Sessions     stores.SessionsFetchFunc
	Feedback     stores.FeedbackFetchFunc
}

// Manager owns the three caches and is constructed once per process. The
// clock is injectable for deterministic tests; nil means wall clock.
type Manager struct {
	raw      *stores.RawAnalyticsStore
	sessions *stores.SessionsStore
	feedback *stores.FeedbackStore
	logger   *logging.ChanneledLogger
}

// NewManager wires the cache stores around the given fetchers.
func NewManager(cfg Config, fetchers Fetchers, now func() time.Time, logger *logging.ChanneledLogger) *Manager {
	return &Manager{
		raw:      stores.NewRawAnalyticsStore(fetchers.RawAnalytics, cfg.RawAnalyticsTTL, now, logger),
		sessions: stores.NewSessionsStore(fetchers.Sessions, cfg.SessionsTTL, now, logger),
		feedback: stores.NewFeedbackStore(fetchers.Feedback, cfg.FeedbackTTL, now, logger),
		logger:   logger,
	}
}

// GetRawEvents returns the cached raw event set, fetching when needed.
func (m *Manager) GetRawEvents(ctx context.Context) ([]analytics.RawEvent, error) {
	return m.raw.GetOrFetch(ctx)
}

// GetSessions returns the sessions payload for a date window, fetching when needed.
func (m *Manager) GetSessions(ctx context.Context, startDate, endDate string) (analytics.SessionsPayload, error) {
	return m.sessions.GetOrFetch(ctx, startDate, endDate)
}

// GetFeedback returns the feedback entries for a date window, fetching when needed.
func (m *Manager) GetFeedback(ctx context.Context, startDate, endDate string) ([]analytics.FeedbackEntry, error) {
	return m.feedback.GetOrFetch(ctx, startDate, endDate)
}

// ClearRawAnalytics empties the raw analytics cache.
func (m *Manager) ClearRawAnalytics() {
	m.raw.Clear()
}

// ClearSessions empties the sessions cache across all date windows.
func (m *Manager) ClearSessions() {
	m.sessions.Clear()
}

// ClearFeedback empties the feedback cache across all date windows.
func (m *Manager) ClearFeedback() {
	m.feedback.Clear()
}

// RawAnalyticsStatus reports raw cache state without side effects.
func (m *Manager) RawAnalyticsStatus() types.CacheStatus {
	return m.raw.Status()
}

// SessionsStatus reports one window's sessions cache state without side effects.
func (m *Manager) SessionsStatus(startDate, endDate string) types.CacheStatus {
	return m.sessions.Status(startDate, endDate)
}
