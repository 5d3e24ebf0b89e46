package stores

import (
	"context"
	"sync"
	"time"

	"github.com/FleetPulse/fleetpulse-go/internal/domain/analytics"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/caching/types"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/observability/logging"
)

// FeedbackFetchFunc retrieves all product feedback entries for one date
// window, paginating until the upstream signals exhaustion.
type FeedbackFetchFunc func(ctx context.Context, startDate, endDate string) ([]analytics.FeedbackEntry, error)

type feedbackEntry struct {
	cached  *types.FeedbackCacheEntry
	pending *pending[[]analytics.FeedbackEntry]
}

// FeedbackStore caches product feedback keyed by the (startDate, endDate)
// pair, with the same TTL and coalescing discipline as the sessions store.
type FeedbackStore struct {
	mu      sync.Mutex
	entries map[string]*feedbackEntry
	ttl     time.Duration
	now     func() time.Time
	fetch   FeedbackFetchFunc
	logger  *logging.ChanneledLogger
}

// NewFeedbackStore creates the product feedback cache store.
func NewFeedbackStore(fetch FeedbackFetchFunc, ttl time.Duration, now func() time.Time, logger *logging.ChanneledLogger) *FeedbackStore {
	if now == nil {
		now = time.Now
	}
	return &FeedbackStore{
		entries: make(map[string]*feedbackEntry),
		ttl:     ttl,
		now:     now,
		fetch:   fetch,
		logger:  logger,
	}
}

// GetOrFetch returns the cached entries for the date window when fresh,
// coalescing concurrent callers per key.
func (s *FeedbackStore) GetOrFetch(ctx context.Context, startDate, endDate string) ([]analytics.FeedbackEntry, error) {
	key := startDate + "|" + endDate

	s.mu.Lock()
	entry := s.entries[key]
	if entry == nil {
		entry = &feedbackEntry{}
		s.entries[key] = entry
	}
	if entry.cached != nil && s.now().Sub(entry.cached.FetchedAt) < s.ttl {
		entries := entry.cached.Entries
		s.mu.Unlock()
		return entries, nil
	}
	if entry.pending != nil {
		p := entry.pending
		s.mu.Unlock()
		return p.wait()
	}
	p := newPending[[]analytics.FeedbackEntry]()
	entry.pending = p
	s.mu.Unlock()

	entries, err := s.fetch(ctx, startDate, endDate)

	s.mu.Lock()
	if current := s.entries[key]; current != nil && current.pending == p {
		current.pending = nil
		if err == nil {
			current.cached = &types.FeedbackCacheEntry{Entries: entries, FetchedAt: s.now()}
		} else {
			current.cached = nil
		}
	}
	s.mu.Unlock()

	if err != nil && s.logger != nil {
		s.logger.Cache().Error("Feedback fetch failed", "key", key, "error", err.Error())
	}
	p.resolve(entries, err)
	return entries, err
}

// Clear drops every cached window and detaches all in-flight fetches.
func (s *FeedbackStore) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]*feedbackEntry)
	s.mu.Unlock()
}
