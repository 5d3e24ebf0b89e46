package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateFeedback(t *testing.T) {
	entries := []FeedbackEntry{
		{ID: "1", Type: FeedbackHelp, Module: "cards", Feature: "unlock", CreatedDate: "2024-01-01T10:00:00Z"},
		{ID: "2", Type: FeedbackSatisfaction, Module: "cards", Feature: "unlock", Rating: 4, CreatedDate: "2024-01-02T10:00:00Z"},
		{ID: "3", Type: FeedbackSatisfaction, Module: "sites", Feature: "locator", Rating: 5, CreatedDate: "2024-01-03T10:00:00Z"},
		{ID: "4", Type: FeedbackEnhancement, Module: "sites", Feature: "locator", CreatedDate: "2024-01-03T11:00:00Z"},
	}
	report := AggregateFeedback(entries)

	assert.Equal(t, 4, report.TotalEntries)
	assert.Equal(t, 1, report.Help)
	assert.Equal(t, 1, report.Enhancements)
	assert.Equal(t, 2, report.Satisfaction)
	assert.InDelta(t, 4.5, report.AvgRating, 0.001)

	require.Len(t, report.ByFeature, 2)
	assert.Equal(t, 2, report.ByFeature[0].Count)
	assert.Equal(t, map[string]int{"cards": 2}, func() map[string]int {
		for _, f := range report.ByFeature {
			if f.Feature == "unlock" {
				return f.Modules
			}
		}
		return nil
	}())

	require.Len(t, report.Trend, 3)
	assert.Equal(t, TrendPoint{Period: "2024-01-02", Count: 1}, report.Trend[1])

	require.NotEmpty(t, report.RecentFeedback)
	assert.Equal(t, "4", report.RecentFeedback[0].ID)
}

func TestAggregateFeedbackRecentLimit(t *testing.T) {
	var entries []FeedbackEntry
	for i := 0; i < 15; i++ {
		entries = append(entries, FeedbackEntry{
			ID:          fmt.Sprintf("%02d", i),
			Type:        FeedbackHelp,
			CreatedDate: fmt.Sprintf("2024-01-%02dT10:00:00Z", i+1),
		})
	}
	report := AggregateFeedback(entries)

	require.Len(t, report.RecentFeedback, 10)
	assert.Equal(t, "14", report.RecentFeedback[0].ID)
}

func TestAggregateFeedbackEmpty(t *testing.T) {
	report := AggregateFeedback(nil)
	assert.Zero(t, report.TotalEntries)
	assert.Zero(t, report.AvgRating)
	assert.Empty(t, report.ByFeature)
}

func TestFilterSessions(t *testing.T) {
	payload := SessionsPayload{
		Sessions: []Session{
			{SessionID: "s1", UserID: "driver-1", SysAccountID: "A-083_1"},
			{SessionID: "s2", UserID: "driver-2", SysAccountID: "B-500_1"},
			{SessionID: "s3", UserID: "admin-1", SysAccountID: "A-083_2"},
		},
		TotalSessions: 3,
	}

	filtered := FilterSessions(payload, "a-083", "driver")
	require.Len(t, filtered.Sessions, 1)
	assert.Equal(t, "s1", filtered.Sessions[0].SessionID)
	assert.Equal(t, 1, filtered.TotalSessions)

	unchanged := FilterSessions(payload, "", "")
	assert.Equal(t, 3, unchanged.TotalSessions)
}
