package analytics

import (
	"sort"
	"time"
)

// activeWindow is the trailing wall-clock window that defines an active user.
const activeWindow = 30 * 24 * time.Hour

// UserTotals is the user cohort summary. Totals derive from the full
// unfiltered event history, not just the queried window; only NewUsers is
// bound to the caller-supplied date range.
type UserTotals struct {
	TotalUsers     int     `json:"totalUsers"`
	ActiveUsers    int     `json:"activeUsers"`
	NewUsers       int     `json:"newUsers"`
	NewUsers30Days int     `json:"newUsers30Days"`
	RetentionRate  float64 `json:"retentionRate"`
}

// RetentionPoint is one period of the retention trend.
type RetentionPoint struct {
	Period          string  `json:"period"`
	ActiveUsers     int     `json:"activeUsers"`
	CumulativeUsers int     `json:"cumulativeUsers"`
	RetentionRate   float64 `json:"retentionRate"`
}

// firstSeen maps each user to the earliest parsable timestamp observed across
// the full history. Events without a user id or timestamp are skipped.
func firstSeen(history []RawEvent) map[string]time.Time {
	seen := make(map[string]time.Time)
	for _, e := range history {
		if e.UserID == "" {
			continue
		}
		t, ok := ParseTimestamp(e.Timestamp)
		if !ok {
			continue
		}
		if prev, exists := seen[e.UserID]; !exists || t.Before(prev) {
			seen[e.UserID] = t
		}
	}
	return seen
}

// ComputeUserTotals derives the cohort summary from the full history. The
// [start, end] day window only scopes NewUsers; active and 30-day figures use
// the trailing window anchored at now.
func ComputeUserTotals(history []RawEvent, start, end string, now time.Time) UserTotals {
	cutoff := now.Add(-activeWindow)

	total := make(map[string]struct{})
	active := make(map[string]struct{})
	for _, e := range history {
		if e.UserID == "" {
			continue
		}
		total[e.UserID] = struct{}{}
		if t, ok := ParseTimestamp(e.Timestamp); ok && !t.Before(cutoff) {
			active[e.UserID] = struct{}{}
		}
	}

	newUsers := 0
	newUsers30 := 0
	for _, t := range firstSeen(history) {
		if !t.Before(cutoff) {
			newUsers30++
		}
		if start == "" && end == "" {
			continue
		}
		day := t.Format(dayLayout)
		if start != "" && day < start {
			continue
		}
		if end != "" && day > end {
			continue
		}
		newUsers++
	}

	totals := UserTotals{
		TotalUsers:     len(total),
		ActiveUsers:    len(active),
		NewUsers:       newUsers,
		NewUsers30Days: newUsers30,
	}
	if totals.TotalUsers > 0 {
		totals.RetentionRate = round1(100 * float64(totals.ActiveUsers) / float64(totals.TotalUsers))
	}
	return totals
}

// UserCreationTrends buckets users by the period containing their first-seen
// timestamp, restricted to first-seen events inside the [start, end] window.
// Daily series are gap-filled; other granularities are sorted only.
func UserCreationTrends(history []RawEvent, start, end string, g Granularity) []TrendPoint {
	counts := make(map[string]int)
	for _, t := range firstSeen(history) {
		day := t.Format(dayLayout)
		if start != "" && day < start {
			continue
		}
		if end != "" && day > end {
			continue
		}
		key, ok := PeriodKey(t.Format(time.RFC3339), g)
		if !ok {
			continue
		}
		counts[key]++
	}
	return trendFromCounts(counts, g, start, end)
}

// UserCreationTrends30Days is the rolling variant: it ignores any explicit
// range and restricts to first-seen timestamps inside the trailing 30 days.
func UserCreationTrends30Days(history []RawEvent, now time.Time) []TrendPoint {
	cutoff := now.Add(-activeWindow)
	counts := make(map[string]int)
	for _, t := range firstSeen(history) {
		if t.Before(cutoff) {
			continue
		}
		counts[t.Format(dayLayout)]++
	}
	return FillDailyGaps(trendSlice(counts), cutoff.Format(dayLayout), now.Format(dayLayout))
}

// UserActiveTrends is the naive active series: distinct users per period over
// the range-filtered events. A user active on several days appears in each of
// those days' buckets.
func UserActiveTrends(events []RawEvent, start, end string, g Granularity) []TrendPoint {
	perPeriod := make(map[string]map[string]struct{})
	for _, e := range FilterByDateRange(events, start, end) {
		if e.UserID == "" {
			continue
		}
		key, ok := PeriodKey(e.Timestamp, g)
		if !ok {
			continue
		}
		if perPeriod[key] == nil {
			perPeriod[key] = make(map[string]struct{})
		}
		perPeriod[key][e.UserID] = struct{}{}
	}
	counts := make(map[string]int, len(perPeriod))
	for key, users := range perPeriod {
		counts[key] = len(users)
	}
	return trendFromCounts(counts, g, start, end)
}

// UserActiveTrends30Days counts each active user exactly once, on the
// earliest day they were active inside the trailing 30-day window, so the
// series sums exactly to the ActiveUsers total for the same now.
func UserActiveTrends30Days(history []RawEvent, now time.Time) []TrendPoint {
	cutoff := now.Add(-activeWindow)
	firstActive := make(map[string]time.Time)
	for _, e := range history {
		if e.UserID == "" {
			continue
		}
		t, ok := ParseTimestamp(e.Timestamp)
		if !ok || t.Before(cutoff) {
			continue
		}
		if prev, exists := firstActive[e.UserID]; !exists || t.Before(prev) {
			firstActive[e.UserID] = t
		}
	}
	counts := make(map[string]int)
	for _, t := range firstActive {
		counts[t.Format(dayLayout)]++
	}
	return FillDailyGaps(trendSlice(counts), cutoff.Format(dayLayout), now.Format(dayLayout))
}

// UserRetentionTrends computes, per ascending period, distinct active users
// against the cumulative distinct user set observed up to and including that
// period. The cumulative set never shrinks.
func UserRetentionTrends(events []RawEvent, g Granularity) []RetentionPoint {
	perPeriod := make(map[string]map[string]struct{})
	for _, e := range events {
		if e.UserID == "" {
			continue
		}
		key, ok := PeriodKey(e.Timestamp, g)
		if !ok {
			continue
		}
		if perPeriod[key] == nil {
			perPeriod[key] = make(map[string]struct{})
		}
		perPeriod[key][e.UserID] = struct{}{}
	}
	periods := make([]string, 0, len(perPeriod))
	for key := range perPeriod {
		periods = append(periods, key)
	}
	sort.Strings(periods)

	cumulative := make(map[string]struct{})
	points := make([]RetentionPoint, 0, len(periods))
	for _, period := range periods {
		for user := range perPeriod[period] {
			cumulative[user] = struct{}{}
		}
		point := RetentionPoint{
			Period:          period,
			ActiveUsers:     len(perPeriod[period]),
			CumulativeUsers: len(cumulative),
		}
		if point.CumulativeUsers > 0 {
			point.RetentionRate = round1(100 * float64(point.ActiveUsers) / float64(point.CumulativeUsers))
		}
		points = append(points, point)
	}
	return points
}

func trendSlice(counts map[string]int) []TrendPoint {
	points := make([]TrendPoint, 0, len(counts))
	for period, count := range counts {
		points = append(points, TrendPoint{Period: period, Count: count})
	}
	return points
}

// trendFromCounts materializes a counts map as a series, gap-filling daily
// granularity and sorting everything else.
func trendFromCounts(counts map[string]int, g Granularity, start, end string) []TrendPoint {
	points := trendSlice(counts)
	if g == GranularityDay {
		return FillDailyGaps(points, start, end)
	}
	SortTrendPoints(points)
	return points
}
