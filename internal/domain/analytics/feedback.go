package analytics

import (
	"sort"
	"strings"
)

// Feedback type codes used by the upstream feedback API.
const (
	FeedbackHelp         = "H"
	FeedbackEnhancement  = "E"
	FeedbackSatisfaction = "S"
)

// FeatureFeedback is the per-feature rollup with its per-module spread.
type FeatureFeedback struct {
	Feature   string         `json:"feature"`
	Count     int            `json:"count"`
	AvgRating float64        `json:"avgRating"`
	Modules   map[string]int `json:"modules"`
}

// FeedbackReport is the product feedback rollup over one date window.
type FeedbackReport struct {
	TotalEntries   int               `json:"totalEntries"`
	Help           int               `json:"helpRequests"`
	Enhancements   int               `json:"enhancementRequests"`
	Satisfaction   int               `json:"satisfactionEntries"`
	AvgRating      float64           `json:"avgRating"`
	ByFeature      []FeatureFeedback `json:"byFeature"`
	Trend          []TrendPoint      `json:"trend"`
	RecentFeedback []FeedbackEntry   `json:"recentFeedback"`
}

const recentFeedbackLimit = 10

// AggregateFeedback rolls product feedback entries up by type, feature, and
// day, and surfaces the most recent entries, newest first.
func AggregateFeedback(entries []FeedbackEntry) *FeedbackReport {
	report := &FeedbackReport{
		TotalEntries: len(entries),
		ByFeature:    []FeatureFeedback{},
		Trend:        []TrendPoint{},
	}

	features := make(map[string]*FeatureFeedback)
	dayCounts := make(map[string]int)
	ratingSum := 0.0
	rated := 0
	for _, entry := range entries {
		switch entry.Type {
		case FeedbackHelp:
			report.Help++
		case FeedbackEnhancement:
			report.Enhancements++
		case FeedbackSatisfaction:
			report.Satisfaction++
		}
		if entry.Rating > 0 {
			ratingSum += entry.Rating
			rated++
		}
		if entry.Feature != "" {
			f := features[entry.Feature]
			if f == nil {
				f = &FeatureFeedback{Feature: entry.Feature, Modules: make(map[string]int)}
				features[entry.Feature] = f
			}
			f.Count++
			f.AvgRating += entry.Rating
			if entry.Module != "" {
				f.Modules[entry.Module]++
			}
		}
		if day, ok := DayKey(entry.CreatedDate); ok {
			dayCounts[day]++
		}
	}
	if rated > 0 {
		report.AvgRating = round2(ratingSum / float64(rated))
	}

	for _, f := range features {
		if f.Count > 0 {
			f.AvgRating = round2(f.AvgRating / float64(f.Count))
		}
		report.ByFeature = append(report.ByFeature, *f)
	}
	sort.Slice(report.ByFeature, func(i, j int) bool {
		if report.ByFeature[i].Count != report.ByFeature[j].Count {
			return report.ByFeature[i].Count > report.ByFeature[j].Count
		}
		return report.ByFeature[i].Feature < report.ByFeature[j].Feature
	})

	report.Trend = FillDailyGaps(trendSlice(dayCounts), "", "")

	recent := make([]FeedbackEntry, len(entries))
	copy(recent, entries)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedDate > recent[j].CreatedDate
	})
	if len(recent) > recentFeedbackLimit {
		recent = recent[:recentFeedbackLimit]
	}
	report.RecentFeedback = recent

	return report
}

// FilterSessions narrows a sessions payload to sessions matching the
// case-insensitive account-code and user-id fragments. TotalSessions reflects
// the filtered count.
func FilterSessions(payload SessionsPayload, accountCode, userID string) SessionsPayload {
	if accountCode == "" && userID == "" {
		return payload
	}
	accountNeedle := strings.ToLower(accountCode)
	userNeedle := strings.ToLower(userID)
	filtered := make([]Session, 0, len(payload.Sessions))
	for _, s := range payload.Sessions {
		if accountNeedle != "" && !strings.Contains(strings.ToLower(ExtractAccountCode(s.SysAccountID)), accountNeedle) {
			continue
		}
		if userNeedle != "" && !strings.Contains(strings.ToLower(s.UserID), userNeedle) {
			continue
		}
		filtered = append(filtered, s)
	}
	return SessionsPayload{Sessions: filtered, TotalSessions: len(filtered)}
}
