package analytics

// UsagePoint is one bucket of the AI usage series. GrowthRate is the percent
// change against the previous bucket; nil for the first bucket.
type UsagePoint struct {
	Period     string   `json:"period"`
	Count      int      `json:"count"`
	GrowthRate *float64 `json:"growthRate,omitempty"`
}

// AggregateQueryTrends buckets raw query volume per period. Daily series are
// gap-filled across the range; other granularities are sorted only.
func AggregateQueryTrends(events []RawEvent, g Granularity, start, end string) []TrendPoint {
	counts := make(map[string]int)
	for _, e := range events {
		if key, ok := PeriodKey(e.Timestamp, g); ok {
			counts[key]++
		}
	}
	return trendFromCounts(counts, g, start, end)
}

// AggregateAIUsage layers period-over-period growth rates onto the query
// trend. Growth against a zero-volume bucket reports 100 percent when volume
// appears, 0 when it stays flat.
func AggregateAIUsage(events []RawEvent, g Granularity, start, end string) []UsagePoint {
	trend := AggregateQueryTrends(events, g, start, end)
	usage := make([]UsagePoint, 0, len(trend))
	for i, p := range trend {
		point := UsagePoint{Period: p.Period, Count: p.Count}
		if i > 0 {
			prev := trend[i-1].Count
			var rate float64
			switch {
			case prev > 0:
				rate = round2(100 * float64(p.Count-prev) / float64(prev))
			case p.Count > 0:
				rate = 100
			}
			point.GrowthRate = &rate
		}
		usage = append(usage, point)
	}
	return usage
}
