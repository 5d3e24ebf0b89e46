package analytics

import (
	"slices"
	"sort"
)

// Intent labels with merge behavior.
const (
	IntentSiteLocator    = "SITE_LOCATOR"
	IntentFuelSearch     = "FUEL_SEARCH"
	IntentAmenitySearch  = "AMENITY_SEARCH"
	IntentCardManagement = "CARD_MANAGEMENT"
	IntentCardUnlock     = "CARD_UNLOCK"
)

// ParamStat is one distinct parameter value and how often it occurred.
type ParamStat struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ParameterUsage aggregates the nested parameter lists of one intent. The
// fuel and amenity lists belong exclusively to the merged SITE_LOCATOR
// bucket; other intents only ever report actions.
type ParameterUsage struct {
	Actions        []ParamStat `json:"actions,omitempty"`
	Amenities      []ParamStat `json:"amenities,omitempty"`
	FuelTypes      []ParamStat `json:"fuelTypes,omitempty"`
	FuelPriorities []ParamStat `json:"fuelPriorities,omitempty"`
}

// IntentStat is one intent's count, share, and parameter usage.
type IntentStat struct {
	Intent     string         `json:"intent"`
	Count      int            `json:"count"`
	Percentage float64        `json:"percentage"`
	Parameters ParameterUsage `json:"parameterUsage"`
}

// IntentDistribution is the intent rollup over one population of events.
type IntentDistribution struct {
	TotalQueries int          `json:"totalQueries"`
	Intents      []IntentStat `json:"intents"`
}

// PeriodIntents is one period's intent distribution in grouped mode.
type PeriodIntents struct {
	Period string `json:"period"`
	IntentDistribution
}

// MergeRule folds source intents into a target intent. Counts are summed and
// the percentage recomputed against the original unmerged total. When
// ActionLabel is set, the merged source volume is appended to the target's
// actions under that label. ParameterKeys names the nested lists the merged
// target aggregates; AmenitySources restricts the amenity pool to events of
// those intents only.
type MergeRule struct {
	Target         string   `json:"targetIntent"`
	Sources        []string `json:"sourceIntents"`
	ActionLabel    string   `json:"actionLabel,omitempty"`
	ParameterKeys  []string `json:"parameterMergeKeys,omitempty"`
	AmenitySources []string `json:"amenitySourceIntents,omitempty"`
}

// DefaultMergeRules is the production normalization: fuel and amenity
// searches are a single site-locator concern, and card unlocks are a
// card-management action.
var DefaultMergeRules = []MergeRule{
	{
		Target:         IntentSiteLocator,
		Sources:        []string{IntentFuelSearch, IntentAmenitySearch},
		ParameterKeys:  []string{"fuelTypes", "fuelPriorities", "amenities"},
		AmenitySources: []string{IntentAmenitySearch},
	},
	{
		Target:      IntentCardManagement,
		Sources:     []string{IntentCardUnlock},
		ActionLabel: "unlock",
	},
}

type tally map[string]int

func (t tally) sorted() []ParamStat {
	stats := make([]ParamStat, 0, len(t))
	for value, count := range t {
		stats = append(stats, ParamStat{Value: value, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Value < stats[j].Value
	})
	return stats
}

// AggregateIntents computes the merged intent distribution over the filtered
// events using the given rule table (DefaultMergeRules in production).
// Percentages are computed against the unmerged total, entries sorted
// descending by count.
func AggregateIntents(events []RawEvent, rules []MergeRule) *IntentDistribution {
	total := len(events)
	counts := make(tally)
	actions := make(map[string]tally)
	fuelTypes := make(tally)
	fuelPriorities := make(tally)
	amenities := make(map[string]tally)

	for _, e := range events {
		intent := e.Intent
		if intent == "" {
			intent = "UNKNOWN"
		}
		counts[intent]++
		if e.Parameters == nil {
			continue
		}
		if e.Parameters.Action != "" {
			if actions[intent] == nil {
				actions[intent] = make(tally)
			}
			actions[intent][e.Parameters.Action]++
		}
		// Fuel parameters are collected across every intent; they only
		// surface on the merged site-locator bucket.
		if e.Parameters.Fuel != nil {
			for _, ft := range e.Parameters.Fuel.FuelType {
				fuelTypes[ft]++
			}
			if e.Parameters.Fuel.FuelPriority != "" {
				fuelPriorities[e.Parameters.Fuel.FuelPriority]++
			}
		}
		for _, a := range e.Parameters.Amenities {
			if amenities[intent] == nil {
				amenities[intent] = make(tally)
			}
			amenities[intent][a]++
		}
	}

	merged := make(tally, len(counts))
	for intent, n := range counts {
		merged[intent] = n
	}
	mergedActions := make(map[string]tally, len(actions))
	for intent, t := range actions {
		mergedActions[intent] = t
	}

	ruleTargets := make(map[string]*MergeRule, len(rules))
	for i := range rules {
		rule := &rules[i]
		ruleTargets[rule.Target] = rule

		sourceVolume := 0
		for _, source := range rule.Sources {
			sourceVolume += merged[source]
			if srcActions, ok := mergedActions[source]; ok {
				if mergedActions[rule.Target] == nil {
					mergedActions[rule.Target] = make(tally)
				}
				for value, n := range srcActions {
					mergedActions[rule.Target][value] += n
				}
				delete(mergedActions, source)
			}
			delete(merged, source)
		}
		if sourceVolume == 0 && merged[rule.Target] == 0 {
			continue
		}
		merged[rule.Target] += sourceVolume
		if rule.ActionLabel != "" && sourceVolume > 0 {
			if mergedActions[rule.Target] == nil {
				mergedActions[rule.Target] = make(tally)
			}
			mergedActions[rule.Target][rule.ActionLabel] += sourceVolume
		}
	}

	stats := make([]IntentStat, 0, len(merged))
	for intent, n := range merged {
		if n == 0 {
			continue
		}
		var pct float64
		if total > 0 {
			pct = round2(100 * float64(n) / float64(total))
		}
		entry := IntentStat{Intent: intent, Count: n, Percentage: pct}
		if t, ok := mergedActions[intent]; ok {
			entry.Parameters.Actions = t.sorted()
		}
		if rule, ok := ruleTargets[intent]; ok {
			if slices.Contains(rule.ParameterKeys, "fuelTypes") {
				entry.Parameters.FuelTypes = fuelTypes.sorted()
			}
			if slices.Contains(rule.ParameterKeys, "fuelPriorities") {
				entry.Parameters.FuelPriorities = fuelPriorities.sorted()
			}
			if slices.Contains(rule.ParameterKeys, "amenities") {
				pool := make(tally)
				for _, intentName := range rule.AmenitySources {
					for value, n := range amenities[intentName] {
						pool[value] += n
					}
				}
				entry.Parameters.Amenities = pool.sorted()
			}
		}
		stats = append(stats, entry)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Intent < stats[j].Intent
	})

	return &IntentDistribution{TotalQueries: total, Intents: stats}
}

// AggregateIntentsByPeriod groups events by period key and computes one
// merged distribution per period, ascending by period.
func AggregateIntentsByPeriod(events []RawEvent, g Granularity, rules []MergeRule) []PeriodIntents {
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

	result := make([]PeriodIntents, 0, len(periods))
	for _, period := range periods {
		result = append(result, PeriodIntents{
			Period:             period,
			IntentDistribution: *AggregateIntents(byPeriod[period], rules),
		})
	}
	return result
}
