package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAccountCode(t *testing.T) {
	assert.Equal(t, "A-083", ExtractAccountCode("A-083_00101_3"))
	assert.Equal(t, UnknownAccount, ExtractAccountCode(""))
	assert.Equal(t, "no-underscore", ExtractAccountCode("no-underscore"))
	assert.Equal(t, UnknownAccount, ExtractAccountCode("_leading"))
}

func TestAggregateAccountAnalytics(t *testing.T) {
	events := []RawEvent{
		{UserID: "u1", Timestamp: "2024-01-01T09:00:00Z", SysAccountID: "A-083_1", ResponseTime: 100},
		{UserID: "u2", Timestamp: "2024-01-01T10:00:00Z", SysAccountID: "A-083_2", ResponseTime: 201},
		{UserID: "u1", Timestamp: "2024-01-03T10:00:00Z", SysAccountID: "A-083_1", ResponseTime: 50},
		{UserID: "u9", Timestamp: "2024-01-02T10:00:00Z", SysAccountID: "B-500_1", ResponseTime: 999},
	}
	summaries := AggregateAccountAnalytics(events, "a-083", GranularityDay, "2024-01-01", "2024-01-03")

	require.Len(t, summaries, 3)
	assert.Equal(t, AccountPeriodSummary{
		Period: "2024-01-01", TotalQueries: 2, UniqueUsers: 2, AvgResponseTime: 151,
	}, summaries[0])
	// The middle day only held the filtered-out account.
	assert.Equal(t, AccountPeriodSummary{Period: "2024-01-02"}, summaries[1])
	assert.Equal(t, 1, summaries[2].UniqueUsers)
}

func TestAggregateAccountAnalyticsNoFilter(t *testing.T) {
	events := []RawEvent{
		{UserID: "u1", Timestamp: "2024-01-01T09:00:00Z", SysAccountID: "A-083_1"},
		{UserID: "u2", Timestamp: "2024-01-01T10:00:00Z", SysAccountID: "B-500_1"},
	}
	summaries := AggregateAccountAnalytics(events, "", GranularityDay, "", "")

	require.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].TotalQueries)
}

func TestAggregateAccountAnalyticsEmpty(t *testing.T) {
	assert.Empty(t, AggregateAccountAnalytics(nil, "", GranularityDay, "", ""))
}

func TestSummarizeAccount(t *testing.T) {
	events := []RawEvent{
		{UserID: "u1", Timestamp: "2024-01-01T09:00:00Z", SysAccountID: "A-083_1", ResponseTime: 120},
		{UserID: "u2", Timestamp: "2024-01-02T09:00:00Z", SysAccountID: "A-083_1", ResponseTime: 80},
		{UserID: "u1", Timestamp: "2024-01-02T10:00:00Z", SysAccountID: "A-083_1", ResponseTime: 100},
	}
	summary := SummarizeAccount(events, "A-083")

	assert.Equal(t, 3, summary.TotalQueries)
	assert.Equal(t, 2, summary.UniqueUsers)
	assert.Equal(t, 100, summary.AvgResponseTime)
	assert.Equal(t, "2024-01-02", summary.BusiestPeriod)
}
