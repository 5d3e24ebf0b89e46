package analytics

import (
	"math"
	"sort"
	"strings"
)

// UnknownAccount is the sentinel for an absent or unparsable account id.
const UnknownAccount = "Unknown"

// ExtractAccountCode returns the segment of a composite system account id
// before the first underscore ("A-083_00101_3" -> "A-083"). An id without an
// underscore is returned whole; an empty id yields the Unknown sentinel.
func ExtractAccountCode(sysAccountID string) string {
	if sysAccountID == "" {
		return UnknownAccount
	}
	code, _, _ := strings.Cut(sysAccountID, "_")
	if code == "" {
		return UnknownAccount
	}
	return code
}

// AccountPeriodSummary is one period's account-scoped query rollup.
type AccountPeriodSummary struct {
	Period          string `json:"period"`
	TotalQueries    int    `json:"totalQueries"`
	UniqueUsers     int    `json:"uniqueUsers"`
	AvgResponseTime int    `json:"avgResponseTime"`
}

// AccountSummary is the whole-range rollup for one account filter.
type AccountSummary struct {
	AccountCode     string `json:"accountCode"`
	TotalQueries    int    `json:"totalQueries"`
	UniqueUsers     int    `json:"uniqueUsers"`
	AvgResponseTime int    `json:"avgResponseTime"`
	BusiestPeriod   string `json:"busiestPeriod,omitempty"`
}

type accountBucket struct {
	queries      int
	users        map[string]struct{}
	responseSum  float64
	responseOver int
}

// AggregateAccountAnalytics buckets query volume, distinct users, and average
// response time per period, optionally narrowed to accounts matching the
// case-insensitive accountCode fragment. Daily series are gap-filled.
func AggregateAccountAnalytics(events []RawEvent, accountCode string, g Granularity, start, end string) []AccountPeriodSummary {
	events = FilterByAccountCode(events, accountCode)

	buckets := make(map[string]*accountBucket)
	for _, e := range events {
		key, ok := PeriodKey(e.Timestamp, g)
		if !ok {
			continue
		}
		b := buckets[key]
		if b == nil {
			b = &accountBucket{users: make(map[string]struct{})}
			buckets[key] = b
		}
		b.queries++
		if e.UserID != "" {
			b.users[e.UserID] = struct{}{}
		}
		b.responseSum += e.ResponseTime
		b.responseOver++
	}

	periods := make([]string, 0, len(buckets))
	for key := range buckets {
		periods = append(periods, key)
	}
	sort.Strings(periods)

	summaries := make([]AccountPeriodSummary, 0, len(periods))
	for _, period := range periods {
		b := buckets[period]
		summaries = append(summaries, AccountPeriodSummary{
			Period:          period,
			TotalQueries:    b.queries,
			UniqueUsers:     len(b.users),
			AvgResponseTime: avgResponse(b.responseSum, b.responseOver),
		})
	}
	if g == GranularityDay {
		return fillDailySummaries(summaries, start, end)
	}
	return summaries
}

// SummarizeAccount condenses the filtered events into a single rollup, naming
// the busiest day in the range.
func SummarizeAccount(events []RawEvent, accountCode string) AccountSummary {
	events = FilterByAccountCode(events, accountCode)

	summary := AccountSummary{AccountCode: accountCode}
	users := make(map[string]struct{})
	perDay := make(map[string]int)
	var responseSum float64
	for _, e := range events {
		summary.TotalQueries++
		if e.UserID != "" {
			users[e.UserID] = struct{}{}
		}
		responseSum += e.ResponseTime
		if day, ok := DayKey(e.Timestamp); ok {
			perDay[day]++
		}
	}
	summary.UniqueUsers = len(users)
	summary.AvgResponseTime = avgResponse(responseSum, summary.TotalQueries)

	busiest := 0
	for day, n := range perDay {
		if n > busiest || (n == busiest && day < summary.BusiestPeriod) {
			busiest = n
			summary.BusiestPeriod = day
		}
	}
	return summary
}

func avgResponse(sum float64, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Round(sum / float64(count)))
}

// fillDailySummaries mirrors FillDailyGaps for the account summary shape.
func fillDailySummaries(summaries []AccountPeriodSummary, start, end string) []AccountPeriodSummary {
	points := make([]TrendPoint, 0, len(summaries))
	byPeriod := make(map[string]AccountPeriodSummary, len(summaries))
	for _, s := range summaries {
		points = append(points, TrendPoint{Period: s.Period, Count: s.TotalQueries})
		byPeriod[s.Period] = s
	}
	filled := FillDailyGaps(points, start, end)
	result := make([]AccountPeriodSummary, 0, len(filled))
	for _, p := range filled {
		if s, ok := byPeriod[p.Period]; ok {
			result = append(result, s)
		} else {
			result = append(result, AccountPeriodSummary{Period: p.Period})
		}
	}
	return result
}
