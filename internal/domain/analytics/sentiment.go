package analytics

import (
	"math"
	"sort"
)

// Satisfaction weights per sentiment label. Unknown carries no weight: it
// counts toward the denominator but never the numerator, mirroring the
// upstream "unknown interactions are not counted" scoring policy.
var satisfactionWeights = map[string]float64{
	SentimentPositive: 1.0,
	SentimentNeutral:  0.5,
	SentimentMixed:    0.5,
	SentimentNegative: 0.0,
}

// sentimentOrder is the canonical label order for stable output when counts tie.
var sentimentOrder = []string{
	SentimentPositive, SentimentNegative, SentimentNeutral, SentimentMixed, SentimentUnknown,
}

// SentimentStat is the count and share of one sentiment label.
type SentimentStat struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// SentimentSlice is one entry of the ordered sentiment distribution.
type SentimentSlice struct {
	Sentiment  string  `json:"sentiment"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// SentimentSnapshot is the sentiment rollup over one population of events.
type SentimentSnapshot struct {
	TotalQueries      int                      `json:"totalQueries"`
	Sentiments        map[string]SentimentStat `json:"sentiments"`
	SatisfactionScore float64                  `json:"satisfactionScore"`
	Distribution      []SentimentSlice         `json:"sentimentDistribution"`
}

// DailySentiment is a per-calendar-day sentiment snapshot.
type DailySentiment struct {
	Date string `json:"date"`
	SentimentSnapshot
}

// SentimentReport is the global-mode aggregation result: one snapshot over the
// whole filtered set plus a per-day breakdown.
type SentimentReport struct {
	SentimentSnapshot
	DateWiseSentiments []DailySentiment `json:"dateWiseSentiments"`
}

// PeriodSentiment is one period's snapshot in grouped mode. SatisfactionTrend
// is the score delta against the previous period; nil for the first period,
// which has no baseline.
type PeriodSentiment struct {
	Period string `json:"period"`
	SentimentSnapshot
	SatisfactionTrend *float64 `json:"satisfactionTrend,omitempty"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func countSentiments(events []RawEvent) map[string]int {
	counts := make(map[string]int, len(sentimentOrder))
	for _, e := range events {
		counts[e.NormalizedSentiment()]++
	}
	return counts
}

// SatisfactionScore computes the weighted 0-100 score over sentiment counts.
// Empty populations score 0, never NaN.
func SatisfactionScore(counts map[string]int) float64 {
	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		return 0
	}
	weighted := 0.0
	for sentiment, n := range counts {
		weighted += satisfactionWeights[sentiment] * float64(n)
	}
	return round2(100 * weighted / float64(total))
}

func snapshotFromCounts(counts map[string]int) SentimentSnapshot {
	total := 0
	for _, n := range counts {
		total += n
	}

	stats := make(map[string]SentimentStat, len(counts))
	distribution := make([]SentimentSlice, 0, len(counts))
	for _, sentiment := range sentimentOrder {
		n := counts[sentiment]
		var pct float64
		if total > 0 {
			pct = round2(100 * float64(n) / float64(total))
		}
		stats[sentiment] = SentimentStat{Count: n, Percentage: pct}
		if n > 0 {
			distribution = append(distribution, SentimentSlice{Sentiment: sentiment, Count: n, Percentage: pct})
		}
	}
	sort.SliceStable(distribution, func(i, j int) bool {
		return distribution[i].Count > distribution[j].Count
	})

	return SentimentSnapshot{
		TotalQueries:      total,
		Sentiments:        stats,
		SatisfactionScore: SatisfactionScore(counts),
		Distribution:      distribution,
	}
}

// AggregateSentiments computes the global sentiment report over the filtered
// events, including the per-day breakdown. Events without a parsable
// timestamp still count toward the global snapshot but are absent from the
// daily series.
func AggregateSentiments(events []RawEvent) *SentimentReport {
	report := &SentimentReport{
		SentimentSnapshot:  snapshotFromCounts(countSentiments(events)),
		DateWiseSentiments: []DailySentiment{},
	}

	byDay := make(map[string][]RawEvent)
	for _, e := range events {
		if day, ok := DayKey(e.Timestamp); ok {
			byDay[day] = append(byDay[day], e)
		}
	}
	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		report.DateWiseSentiments = append(report.DateWiseSentiments, DailySentiment{
			Date:              day,
			SentimentSnapshot: snapshotFromCounts(countSentiments(byDay[day])),
		})
	}
	return report
}

// AggregateSentimentsByPeriod groups events by period key and emits one
// snapshot per period, ascending, each carrying the score delta against the
// previous period.
func AggregateSentimentsByPeriod(events []RawEvent, g Granularity) []PeriodSentiment {
	byPeriod := make(map[string][]RawEvent)
	for _, e := range events {
		if period, ok := PeriodKey(e.Timestamp, g); ok {
			byPeriod[period] = append(byPeriod[period], e)
		}
	}
	periods := make([]string, 0, len(byPeriod))
	for period := range byPeriod {
		periods = append(periods, period)
	}
	sort.Strings(periods)

	result := make([]PeriodSentiment, 0, len(periods))
	var prevScore *float64
	for _, period := range periods {
		snapshot := snapshotFromCounts(countSentiments(byPeriod[period]))
		entry := PeriodSentiment{Period: period, SentimentSnapshot: snapshot}
		if prevScore != nil {
			trend := round2(snapshot.SatisfactionScore - *prevScore)
			entry.SatisfactionTrend = &trend
		}
		score := snapshot.SatisfactionScore
		prevScore = &score
		result = append(result, entry)
	}
	return result
}
