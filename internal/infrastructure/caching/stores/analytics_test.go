package stores

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FleetPulse/fleetpulse-go/internal/domain/analytics"
)

func sampleEvents(n int) []analytics.RawEvent {
	events := make([]analytics.RawEvent, n)
	for i := range events {
		events[i] = analytics.RawEvent{UserID: "user", Timestamp: "2024-01-15T10:00:00Z", Intent: "FUEL_SEARCH"}
	}
	return events
}

func TestRawAnalyticsStoreCachesWithinTTL(t *testing.T) {
	var calls int32
	current := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	now := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}
	advance := func(d time.Duration) {
		mu.Lock()
		current = current.Add(d)
		mu.Unlock()
	}

	fetch := func(ctx context.Context) ([]analytics.RawEvent, error) {
		atomic.AddInt32(&calls, 1)
		return sampleEvents(3), nil
	}
	store := NewRawAnalyticsStore(fetch, 2*time.Minute, now, nil)

	events, err := store.GetOrFetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 3)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	advance(90 * time.Second)
	_, err = store.GetOrFetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "fresh cache must not refetch")

	advance(time.Minute)
	_, err = store.GetOrFetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "expired cache must refetch")
}

func TestRawAnalyticsStoreCoalescesConcurrentFetches(t *testing.T) {
	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context) ([]analytics.RawEvent, error) {
		atomic.AddInt32(&calls, 1)
		close(started)
		<-release
		return sampleEvents(5), nil
	}
	store := NewRawAnalyticsStore(fetch, time.Minute, nil, nil)

	type result struct {
		events []analytics.RawEvent
		err    error
	}
	first := make(chan result, 1)
	second := make(chan result, 1)

	go func() {
		events, err := store.GetOrFetch(context.Background())
		first <- result{events, err}
	}()
	<-started
	go func() {
		events, err := store.GetOrFetch(context.Background())
		second <- result{events, err}
	}()

	// The second caller is attached before the fetch resolves.
	assert.Eventually(t, func() bool {
		return store.Status().HasPendingRequest
	}, time.Second, time.Millisecond)
	close(release)

	r1 := <-first
	r2 := <-second
	require.NoError(t, r1.err)
	require.NoError(t, r2.err)
	assert.Len(t, r1.events, 5)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "concurrent callers must share one upstream call")
	assert.Same(t, &r1.events[0], &r2.events[0], "both callers receive the identical resolved slice")
}

func TestRawAnalyticsStoreFailureLeavesCacheEmpty(t *testing.T) {
	var calls int32
	fetch := func(ctx context.Context) ([]analytics.RawEvent, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, errors.New("upstream unavailable")
		}
		return sampleEvents(2), nil
	}
	store := NewRawAnalyticsStore(fetch, time.Minute, nil, nil)

	_, err := store.GetOrFetch(context.Background())
	require.Error(t, err)

	status := store.Status()
	assert.False(t, status.HasCachedData)
	assert.False(t, status.HasPendingRequest)

	events, err := store.GetOrFetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRawAnalyticsStoreClearDetachesInFlightFetch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context) ([]analytics.RawEvent, error) {
		close(started)
		<-release
		return sampleEvents(4), nil
	}
	store := NewRawAnalyticsStore(fetch, time.Minute, nil, nil)

	done := make(chan []analytics.RawEvent, 1)
	go func() {
		events, err := store.GetOrFetch(context.Background())
		require.NoError(t, err)
		done <- events
	}()
	<-started
	store.Clear()
	close(release)

	events := <-done
	assert.Len(t, events, 4, "the original caller still receives the fetched value")

	status := store.Status()
	assert.False(t, status.HasCachedData, "a detached fetch must not repopulate the cache")
	assert.False(t, status.HasPendingRequest)
}

func TestRawAnalyticsStoreStatus(t *testing.T) {
	current := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	now := func() time.Time { return current }
	fetch := func(ctx context.Context) ([]analytics.RawEvent, error) {
		return sampleEvents(7), nil
	}
	store := NewRawAnalyticsStore(fetch, 2*time.Minute, now, nil)

	assert.Equal(t, false, store.Status().HasCachedData)

	_, err := store.GetOrFetch(context.Background())
	require.NoError(t, err)

	current = current.Add(45 * time.Second)
	status := store.Status()
	assert.True(t, status.HasCachedData)
	assert.Equal(t, 7, status.CacheSize)
	assert.Equal(t, 45, status.CacheAgeSeconds)
	assert.True(t, status.IsValid)
	assert.False(t, status.HasPendingRequest)

	current = current.Add(2 * time.Minute)
	assert.False(t, store.Status().IsValid, "an expired entry is reported but no longer valid")
}
