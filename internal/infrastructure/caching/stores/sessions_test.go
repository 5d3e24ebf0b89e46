package stores

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FleetPulse/fleetpulse-go/internal/domain/analytics"
)

func payloadFor(key string, n int) analytics.SessionsPayload {
	sessions := make([]analytics.Session, n)
	for i := range sessions {
		sessions[i] = analytics.Session{UserID: key}
	}
	return analytics.SessionsPayload{Sessions: sessions, TotalSessions: n}
}

func TestSessionsStoreCachesPerDateWindow(t *testing.T) {
	var calls int32
	fetch := func(ctx context.Context, startDate, endDate string) (analytics.SessionsPayload, error) {
		atomic.AddInt32(&calls, 1)
		return payloadFor(startDate, 2), nil
	}
	store := NewSessionsStore(fetch, time.Minute, nil, nil)

	p1, err := store.GetOrFetch(context.Background(), "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, 2, p1.TotalSessions)

	_, err = store.GetOrFetch(context.Background(), "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "same window hits the cache")

	_, err = store.GetOrFetch(context.Background(), "2024-02-01", "2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "a different window is a separate cache key")
}

func TestSessionsStoreDoesNotCoalesceAcrossWindows(t *testing.T) {
	var calls int32
	firstStarted := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	fetch := func(ctx context.Context, startDate, endDate string) (analytics.SessionsPayload, error) {
		atomic.AddInt32(&calls, 1)
		if startDate == "2024-01-01" {
			once.Do(func() { close(firstStarted) })
			<-release
		}
		return payloadFor(startDate, 1), nil
	}
	store := NewSessionsStore(fetch, time.Minute, nil, nil)

	done := make(chan analytics.SessionsPayload, 1)
	go func() {
		payload, err := store.GetOrFetch(context.Background(), "2024-01-01", "2024-01-31")
		require.NoError(t, err)
		done <- payload
	}()
	<-firstStarted

	// A different window must issue its own upstream call while the first
	// window's fetch is still in flight.
	other, err := store.GetOrFetch(context.Background(), "2024-02-01", "2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", other.Sessions[0].UserID)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	close(release)
	first := <-done
	assert.Equal(t, "2024-01-01", first.Sessions[0].UserID)
}

func TestSessionsStoreCoalescesSameWindow(t *testing.T) {
	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context, startDate, endDate string) (analytics.SessionsPayload, error) {
		atomic.AddInt32(&calls, 1)
		close(started)
		<-release
		return payloadFor(startDate, 3), nil
	}
	store := NewSessionsStore(fetch, time.Minute, nil, nil)

	results := make(chan analytics.SessionsPayload, 2)
	go func() {
		payload, err := store.GetOrFetch(context.Background(), "2024-03-01", "2024-03-31")
		require.NoError(t, err)
		results <- payload
	}()
	<-started
	go func() {
		payload, err := store.GetOrFetch(context.Background(), "2024-03-01", "2024-03-31")
		require.NoError(t, err)
		results <- payload
	}()

	assert.Eventually(t, func() bool {
		return store.Status("2024-03-01", "2024-03-31").HasPendingRequest
	}, time.Second, time.Millisecond)
	close(release)

	a := <-results
	b := <-results
	assert.Equal(t, 3, a.TotalSessions)
	assert.Equal(t, 3, b.TotalSessions)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "same-window callers share one upstream call")
}

func TestSessionsStoreClearAndStatus(t *testing.T) {
	current := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	now := func() time.Time { return current }
	fetch := func(ctx context.Context, startDate, endDate string) (analytics.SessionsPayload, error) {
		return payloadFor(startDate, 4), nil
	}
	store := NewSessionsStore(fetch, 2*time.Minute, now, nil)

	_, err := store.GetOrFetch(context.Background(), "2024-01-01", "2024-01-31")
	require.NoError(t, err)

	current = current.Add(30 * time.Second)
	status := store.Status("2024-01-01", "2024-01-31")
	assert.True(t, status.HasCachedData)
	assert.Equal(t, 4, status.CacheSize)
	assert.Equal(t, 30, status.CacheAgeSeconds)
	assert.True(t, status.IsValid)

	assert.False(t, store.Status("2099-01-01", "2099-01-31").HasCachedData)

	store.Clear()
	assert.False(t, store.Status("2024-01-01", "2024-01-31").HasCachedData)
}
