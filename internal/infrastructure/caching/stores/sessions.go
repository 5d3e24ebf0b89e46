package stores

import (
	"context"
	"sync"
	"time"

	"github.com/FleetPulse/fleetpulse-go/internal/domain/analytics"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/caching/types"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/observability/logging"
)

// SessionsFetchFunc retrieves the sessions payload for one date window.
type SessionsFetchFunc func(ctx context.Context, startDate, endDate string) (analytics.SessionsPayload, error)

type sessionsEntry struct {
	cached  *types.SessionsCacheEntry
	pending *pending[analytics.SessionsPayload]
}

// SessionsStore caches sessions payloads keyed by the (startDate, endDate)
// pair. Each distinct key owns its own pending-fetch slot; fetches for
// different windows are never coalesced with each other.
type SessionsStore struct {
	mu      sync.Mutex
	entries map[string]*sessionsEntry
	ttl     time.Duration
	now     func() time.Time
	fetch   SessionsFetchFunc
	logger  *logging.ChanneledLogger
}

// NewSessionsStore creates the sessions cache store.
func NewSessionsStore(fetch SessionsFetchFunc, ttl time.Duration, now func() time.Time, logger *logging.ChanneledLogger) *SessionsStore {
	if now == nil {
		now = time.Now
	}
	if logger != nil {
		logger.Cache().Info("Initializing sessions cache store", "ttl", ttl)
	}
	return &SessionsStore{
		entries: make(map[string]*sessionsEntry),
		ttl:     ttl,
		now:     now,
		fetch:   fetch,
		logger:  logger,
	}
}

func sessionsKey(startDate, endDate string) string {
	return startDate + "|" + endDate
}

// GetOrFetch returns the cached payload for the date window when fresh,
// attaches to that window's in-flight fetch when one exists, and otherwise
// starts a new fetch.
func (s *SessionsStore) GetOrFetch(ctx context.Context, startDate, endDate string) (analytics.SessionsPayload, error) {
	key := sessionsKey(startDate, endDate)
	start := time.Now()

	s.mu.Lock()
	entry := s.entries[key]
	if entry == nil {
		entry = &sessionsEntry{}
		s.entries[key] = entry
	}
	if entry.cached != nil && s.now().Sub(entry.cached.FetchedAt) < s.ttl {
		payload := entry.cached.Payload
		s.mu.Unlock()
		if s.logger != nil {
			s.logger.LogCacheOperation("get", "sessions:"+key, true, time.Since(start))
		}
		return payload, nil
	}
	if entry.pending != nil {
		p := entry.pending
		s.mu.Unlock()
		return p.wait()
	}
	p := newPending[analytics.SessionsPayload]()
	entry.pending = p
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.LogCacheOperation("get", "sessions:"+key, false, time.Since(start))
	}

	payload, err := s.fetch(ctx, startDate, endDate)

	s.mu.Lock()
	if current := s.entries[key]; current != nil && current.pending == p {
		current.pending = nil
		if err == nil {
			current.cached = &types.SessionsCacheEntry{Payload: payload, FetchedAt: s.now()}
		} else {
			current.cached = nil
		}
	}
	s.mu.Unlock()

	if err != nil && s.logger != nil {
		s.logger.Cache().Error("Sessions fetch failed", "key", key, "error", err.Error())
	}
	p.resolve(payload, err)
	return payload, err
}

// Clear drops every cached window and detaches all in-flight fetches.
func (s *SessionsStore) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]*sessionsEntry)
	s.mu.Unlock()
	if s.logger != nil {
		s.logger.Cache().Info("Sessions cache cleared")
	}
}

// Status reports the cache state for one date window without side effects.
func (s *SessionsStore) Status(startDate, endDate string) types.CacheStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.entries[sessionsKey(startDate, endDate)]
	if entry == nil {
		return types.CacheStatus{}
	}
	status := types.CacheStatus{HasPendingRequest: entry.pending != nil}
	if entry.cached != nil {
		age := s.now().Sub(entry.cached.FetchedAt)
		status.HasCachedData = true
		status.CacheSize = len(entry.cached.Payload.Sessions)
		status.CacheAgeSeconds = int(age.Seconds())
		status.IsValid = age < s.ttl
	}
	return status
}
