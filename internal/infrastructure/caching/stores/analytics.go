package stores

import (
	"context"
	"sync"
	"time"

	"github.com/FleetPulse/fleetpulse-go/internal/domain/analytics"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/caching/types"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/observability/logging"
)

// RawFetchFunc retrieves the complete raw event set, paginating until the
// upstream signals exhaustion.
type RawFetchFunc func(ctx context.Context) ([]analytics.RawEvent, error)

// RawAnalyticsStore caches the fully paginated raw event set behind a single
// cache key with TTL expiry and fetch coalescing.
type RawAnalyticsStore struct {
	mu      sync.Mutex
	cached  *types.RawAnalyticsCache
	pending *pending[[]analytics.RawEvent]
	ttl     time.Duration
	now     func() time.Time
	fetch   RawFetchFunc
	logger  *logging.ChanneledLogger
}

// NewRawAnalyticsStore creates the raw analytics cache store. The now func is
// injectable for deterministic TTL tests; nil means wall clock.
func NewRawAnalyticsStore(fetch RawFetchFunc, ttl time.Duration, now func() time.Time, logger *logging.ChanneledLogger) *RawAnalyticsStore {
	if now == nil {
		now = time.Now
	}
	if logger != nil {
		logger.Cache().Info("Initializing raw analytics cache store", "ttl", ttl)
	}
	return &RawAnalyticsStore{
		ttl:    ttl,
		now:    now,
		fetch:  fetch,
		logger: logger,
	}
}

// GetOrFetch returns the cached event set when fresh, attaches to an
// in-flight fetch when one exists, and otherwise starts a new fetch. All
// callers attached to the same fetch receive the identical result.
func (s *RawAnalyticsStore) GetOrFetch(ctx context.Context) ([]analytics.RawEvent, error) {
	start := time.Now()

	s.mu.Lock()
	if s.cached != nil && s.now().Sub(s.cached.FetchedAt) < s.ttl {
		events := s.cached.Events
		s.mu.Unlock()
		if s.logger != nil {
			s.logger.LogCacheOperation("get", "raw_analytics", true, time.Since(start))
		}
		return events, nil
	}
	if s.pending != nil {
		p := s.pending
		s.mu.Unlock()
		if s.logger != nil {
			s.logger.Cache().Debug("Attaching to in-flight raw analytics fetch")
		}
		return p.wait()
	}
	p := newPending[[]analytics.RawEvent]()
	s.pending = p
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.LogCacheOperation("get", "raw_analytics", false, time.Since(start))
	}

	events, err := s.fetch(ctx)

	s.mu.Lock()
	// A Clear during the fetch detaches the store; only the still-attached
	// fetch may populate the cache.
	if s.pending == p {
		s.pending = nil
		if err == nil {
			s.cached = &types.RawAnalyticsCache{Events: events, FetchedAt: s.now()}
		} else {
			s.cached = nil
		}
	}
	s.mu.Unlock()

	if err != nil && s.logger != nil {
		s.logger.Cache().Error("Raw analytics fetch failed", "error", err.Error(), "duration", time.Since(start))
	}
	p.resolve(events, err)
	return events, err
}

// Clear resets the store to empty and detaches any in-flight fetch without
// cancelling it.
func (s *RawAnalyticsStore) Clear() {
	s.mu.Lock()
	s.cached = nil
	s.pending = nil
	s.mu.Unlock()
	if s.logger != nil {
		s.logger.Cache().Info("Raw analytics cache cleared")
	}
}

// Status reports the cache state without side effects.
func (s *RawAnalyticsStore) Status() types.CacheStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := types.CacheStatus{HasPendingRequest: s.pending != nil}
	if s.cached != nil {
		age := s.now().Sub(s.cached.FetchedAt)
		status.HasCachedData = true
		status.CacheSize = len(s.cached.Events)
		status.CacheAgeSeconds = int(age.Seconds())
		status.IsValid = age < s.ttl
	}
	return status
}
