package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreSetNotifiesSubscribers(t *testing.T) {
	store := NewStore()

	var seen []FilterState
	unsubscribe := store.Subscribe(func(state FilterState) {
		seen = append(seen, state)
	})

	changed := store.Set(FilterState{StartDate: "2024-01-01", EndDate: "2024-01-31"})
	assert.True(t, changed)
	assert.Len(t, seen, 1)
	assert.Equal(t, "2024-01-01", seen[0].StartDate)
	assert.Equal(t, store.Get(), seen[0])

	changed = store.Set(FilterState{StartDate: "2024-01-01", EndDate: "2024-01-31"})
	assert.False(t, changed, "setting an identical state is a no-op")
	assert.Len(t, seen, 1)

	unsubscribe()
	store.Set(FilterState{AccountCode: "A-083"})
	assert.Len(t, seen, 1, "unsubscribed callbacks are no longer invoked")
	assert.Equal(t, "A-083", store.Get().AccountCode)
}

func TestStoreMultipleSubscribers(t *testing.T) {
	store := NewStore()

	first, second := 0, 0
	store.Subscribe(func(FilterState) { first++ })
	store.Subscribe(func(FilterState) { second++ })

	store.Set(FilterState{UserID: "alice"})
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}
