// Package types defines cache entry and introspection shapes
package types

import (
	"time"

	"github.com/FleetPulse/fleetpulse-go/internal/domain/analytics"
)

// RawAnalyticsCache holds the fully paginated raw event set.
type RawAnalyticsCache struct {
	Events    []analytics.RawEvent
	FetchedAt time.Time
}

// SessionsCacheEntry holds one date window's sessions payload.
type SessionsCacheEntry struct {
	Payload   analytics.SessionsPayload
	FetchedAt time.Time
}

// FeedbackCacheEntry holds one date window's product feedback entries.
type FeedbackCacheEntry struct {
	Entries   []analytics.FeedbackEntry
	FetchedAt time.Time
}

// CacheStatus is the side-effect-free introspection shape exposed to clients.
type CacheStatus struct {
	HasCachedData     bool `json:"hasCachedData"`
	CacheSize         int  `json:"cacheSize"`
	CacheAgeSeconds   int  `json:"cacheAgeSeconds"`
	IsValid           bool `json:"isValid"`
	HasPendingRequest bool `json:"hasPendingRequest"`
}
