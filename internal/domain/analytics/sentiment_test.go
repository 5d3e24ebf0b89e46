package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sentimentEvent(ts, sentiment string) RawEvent {
	return RawEvent{UserID: "u", Timestamp: ts, Sentiment: sentiment}
}

func TestAggregateSentiments(t *testing.T) {
	events := []RawEvent{
		sentimentEvent("2024-01-01T10:00:00Z", SentimentPositive),
		sentimentEvent("2024-01-01T11:00:00Z", SentimentPositive),
		sentimentEvent("2024-01-02T10:00:00Z", SentimentNegative),
		sentimentEvent("2024-01-02T11:00:00Z", SentimentNeutral),
	}
	report := AggregateSentiments(events)

	assert.Equal(t, 4, report.TotalQueries)
	assert.InDelta(t, 50.0, report.Sentiments[SentimentPositive].Percentage, 0.001)
	assert.InDelta(t, 25.0, report.Sentiments[SentimentNegative].Percentage, 0.001)
	// 100 * (2*1.0 + 0.5) / 4
	assert.InDelta(t, 62.5, report.SatisfactionScore, 0.001)

	require.Len(t, report.DateWiseSentiments, 2)
	assert.Equal(t, "2024-01-01", report.DateWiseSentiments[0].Date)
	assert.Equal(t, 2, report.DateWiseSentiments[0].TotalQueries)
	assert.InDelta(t, 100.0, report.DateWiseSentiments[0].SatisfactionScore, 0.001)
	assert.InDelta(t, 25.0, report.DateWiseSentiments[1].SatisfactionScore, 0.001)
}

func TestSentimentPercentagesSumTo100(t *testing.T) {
	events := []RawEvent{
		sentimentEvent("2024-01-01T10:00:00Z", SentimentPositive),
		sentimentEvent("2024-01-01T11:00:00Z", SentimentNegative),
		sentimentEvent("2024-01-01T12:00:00Z", SentimentNeutral),
		sentimentEvent("2024-01-01T13:00:00Z", SentimentMixed),
		sentimentEvent("2024-01-01T14:00:00Z", SentimentUnknown),
		sentimentEvent("2024-01-01T15:00:00Z", SentimentPositive),
		sentimentEvent("2024-01-01T16:00:00Z", SentimentPositive),
	}
	report := AggregateSentiments(events)

	sum := 0.0
	for _, stat := range report.Sentiments {
		sum += stat.Percentage
	}
	assert.InDelta(t, 100.0, sum, 0.1)
}

func TestSentimentUnknownInDenominatorOnly(t *testing.T) {
	events := []RawEvent{
		sentimentEvent("2024-01-01T10:00:00Z", SentimentPositive),
		sentimentEvent("2024-01-01T11:00:00Z", ""), // defaults to unknown
	}
	report := AggregateSentiments(events)

	assert.Equal(t, 2, report.TotalQueries)
	assert.Equal(t, 1, report.Sentiments[SentimentUnknown].Count)
	assert.InDelta(t, 50.0, report.Sentiments[SentimentUnknown].Percentage, 0.001)
	// Unknown dilutes the score but contributes no weight.
	assert.InDelta(t, 50.0, report.SatisfactionScore, 0.001)
}

func TestAggregateSentimentsEmptyInput(t *testing.T) {
	report := AggregateSentiments(nil)

	assert.Zero(t, report.TotalQueries)
	assert.Zero(t, report.SatisfactionScore)
	for _, stat := range report.Sentiments {
		assert.Zero(t, stat.Percentage)
	}
	assert.Empty(t, report.DateWiseSentiments)
	assert.Empty(t, report.Distribution)
}

func TestSentimentDistributionSortedByCount(t *testing.T) {
	events := []RawEvent{
		sentimentEvent("2024-01-01T10:00:00Z", SentimentNegative),
		sentimentEvent("2024-01-01T11:00:00Z", SentimentNegative),
		sentimentEvent("2024-01-01T12:00:00Z", SentimentPositive),
	}
	report := AggregateSentiments(events)

	require.Len(t, report.Distribution, 2)
	assert.Equal(t, SentimentNegative, report.Distribution[0].Sentiment)
	assert.Equal(t, 2, report.Distribution[0].Count)
}

func TestAggregateSentimentsByPeriod(t *testing.T) {
	events := []RawEvent{
		sentimentEvent("2024-01-01T10:00:00Z", SentimentPositive),
		sentimentEvent("2024-01-02T10:00:00Z", SentimentNegative),
		sentimentEvent("2024-01-02T11:00:00Z", SentimentPositive),
		{UserID: "u", Sentiment: SentimentPositive}, // no timestamp, excluded
	}
	grouped := AggregateSentimentsByPeriod(events, GranularityDay)

	require.Len(t, grouped, 2)
	assert.Equal(t, "2024-01-01", grouped[0].Period)
	assert.Nil(t, grouped[0].SatisfactionTrend)
	assert.InDelta(t, 100.0, grouped[0].SatisfactionScore, 0.001)

	assert.Equal(t, "2024-01-02", grouped[1].Period)
	require.NotNil(t, grouped[1].SatisfactionTrend)
	assert.InDelta(t, -50.0, *grouped[1].SatisfactionTrend, 0.001)
}

func TestSatisfactionScoreEmpty(t *testing.T) {
	assert.Zero(t, SatisfactionScore(map[string]int{}))
}
