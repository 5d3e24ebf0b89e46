package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Granularity selects the calendar bucket size for time-bucketed aggregation.
type Granularity string

const (
	GranularityHour  Granularity = "hour"
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// ParseGranularity maps a query-string value onto a Granularity, defaulting to daily.
func ParseGranularity(s string) Granularity {
	switch Granularity(strings.ToLower(s)) {
	case GranularityHour, GranularityWeek, GranularityMonth:
		return Granularity(strings.ToLower(s))
	default:
		return GranularityDay
	}
}

const dayLayout = "2006-01-02"

// timestampLayouts are tried in order when parsing upstream timestamps.
// The upstream API is not consistent about offsets or fractional seconds.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	dayLayout,
}

// ParseTimestamp parses an upstream timestamp. The boolean is false when the
// value is empty or unparsable; such events are excluded from every
// time-bucketed aggregation.
func ParseTimestamp(ts string) (time.Time, bool) {
	if ts == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// PeriodKey buckets a timestamp into a canonical, lexicographically sortable
// period key: "2006-01-02T15:00" for hours, "2006-01-02" for days,
// "2006-W02" (ISO week) for weeks, "2006-01" for months. The boolean is false
// when the timestamp does not parse.
func PeriodKey(ts string, g Granularity) (string, bool) {
	t, ok := ParseTimestamp(ts)
	if !ok {
		return "", false
	}
	switch g {
	case GranularityHour:
		return t.Format("2006-01-02T15:00"), true
	case GranularityWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week), true
	case GranularityMonth:
		return t.Format("2006-01"), true
	default:
		return t.Format(dayLayout), true
	}
}

// DayKey is PeriodKey at daily granularity.
func DayKey(ts string) (string, bool) {
	return PeriodKey(ts, GranularityDay)
}

// FilterByDateRange returns the events whose timestamp falls inside the
// inclusive [start, end] day window. Bounds are "2006-01-02" strings; an empty
// bound is open on that side. With both bounds empty the input is returned
// unchanged. Events without a parsable timestamp are dropped whenever any
// bound is present. start > end yields an empty result.
func FilterByDateRange(events []RawEvent, start, end string) []RawEvent {
	if start == "" && end == "" {
		return events
	}
	if start != "" && end != "" && start > end {
		return []RawEvent{}
	}
	filtered := make([]RawEvent, 0, len(events))
	for _, e := range events {
		day, ok := DayKey(e.Timestamp)
		if !ok {
			continue
		}
		if start != "" && day < start {
			continue
		}
		if end != "" && day > end {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

// FilterByAccountCode keeps events whose extracted account code contains the
// given fragment, case-insensitively. An empty fragment keeps everything.
func FilterByAccountCode(events []RawEvent, accountCode string) []RawEvent {
	if accountCode == "" {
		return events
	}
	needle := strings.ToLower(accountCode)
	filtered := make([]RawEvent, 0, len(events))
	for _, e := range events {
		if strings.Contains(strings.ToLower(ExtractAccountCode(e.SysAccountID)), needle) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// FilterByUserID keeps events whose user id contains the given fragment,
// case-insensitively. An empty fragment keeps everything.
func FilterByUserID(events []RawEvent, userID string) []RawEvent {
	if userID == "" {
		return events
	}
	needle := strings.ToLower(userID)
	filtered := make([]RawEvent, 0, len(events))
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.UserID), needle) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// TrendPoint is one bucket of a time series.
type TrendPoint struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

// SortTrendPoints orders a series ascending by period key.
func SortTrendPoints(points []TrendPoint) {
	sort.Slice(points, func(i, j int) bool { return points[i].Period < points[j].Period })
}

// FillDailyGaps returns a daily series where every calendar day between the
// range bounds appears exactly once, inserting zero-count entries for days
// absent from the input. When a bound is empty the first (or last) observed
// period substitutes. Only daily series are gap-filled; weekly and monthly
// series are sorted by the caller and left sparse.
func FillDailyGaps(points []TrendPoint, start, end string) []TrendPoint {
	counts := make(map[string]int, len(points))
	var first, last string
	for _, p := range points {
		counts[p.Period] = p.Count
		if first == "" || p.Period < first {
			first = p.Period
		}
		if last == "" || p.Period > last {
			last = p.Period
		}
	}
	if start == "" {
		start = first
	}
	if end == "" {
		end = last
	}
	if start == "" || end == "" {
		return []TrendPoint{}
	}

	startDay, okStart := time.Parse(dayLayout, start)
	endDay, okEnd := time.Parse(dayLayout, end)
	if okStart != nil || okEnd != nil || startDay.After(endDay) {
		SortTrendPoints(points)
		return points
	}

	filled := make([]TrendPoint, 0, int(endDay.Sub(startDay).Hours()/24)+1)
	for d := startDay; !d.After(endDay); d = d.AddDate(0, 0, 1) {
		key := d.Format(dayLayout)
		filled = append(filled, TrendPoint{Period: key, Count: counts[key]})
	}
	return filled
}
