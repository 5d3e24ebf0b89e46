package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intentEvent(intent string, params *EventParameters) RawEvent {
	return RawEvent{UserID: "u", Timestamp: "2024-01-01T10:00:00Z", Intent: intent, Parameters: params}
}

func findIntent(t *testing.T, dist *IntentDistribution, name string) IntentStat {
	t.Helper()
	for _, stat := range dist.Intents {
		if stat.Intent == name {
			return stat
		}
	}
	t.Fatalf("intent %s not found in distribution", name)
	return IntentStat{}
}

func TestSiteLocatorMerge(t *testing.T) {
	events := []RawEvent{
		intentEvent(IntentFuelSearch, nil),
		intentEvent(IntentFuelSearch, nil),
		intentEvent(IntentFuelSearch, nil),
		intentEvent(IntentAmenitySearch, nil),
		intentEvent(IntentAmenitySearch, nil),
	}
	dist := AggregateIntents(events, DefaultMergeRules)

	require.Len(t, dist.Intents, 1)
	assert.Equal(t, IntentSiteLocator, dist.Intents[0].Intent)
	assert.Equal(t, 5, dist.Intents[0].Count)
	assert.InDelta(t, 100.0, dist.Intents[0].Percentage, 0.001)
}

func TestMergePercentageAgainstUnmergedTotal(t *testing.T) {
	events := []RawEvent{
		intentEvent(IntentFuelSearch, nil),
		intentEvent(IntentFuelSearch, nil),
		intentEvent(IntentFuelSearch, nil),
		intentEvent("TRANSACTION_HISTORY", nil),
	}
	dist := AggregateIntents(events, DefaultMergeRules)

	assert.Equal(t, 4, dist.TotalQueries)
	locator := findIntent(t, dist, IntentSiteLocator)
	assert.Equal(t, 3, locator.Count)
	assert.InDelta(t, 75.0, locator.Percentage, 0.001)
}

func TestCardUnlockMerge(t *testing.T) {
	events := []RawEvent{
		intentEvent(IntentCardManagement, &EventParameters{Action: "activate"}),
		intentEvent(IntentCardManagement, nil),
		intentEvent(IntentCardUnlock, nil),
	}
	dist := AggregateIntents(events, DefaultMergeRules)

	card := findIntent(t, dist, IntentCardManagement)
	assert.Equal(t, 3, card.Count)
	require.Len(t, card.Parameters.Actions, 2)
	assert.Contains(t, card.Parameters.Actions, ParamStat{Value: "unlock", Count: 1})
	assert.Contains(t, card.Parameters.Actions, ParamStat{Value: "activate", Count: 1})
}

func TestFuelParametersAggregatedOnSiteLocator(t *testing.T) {
	events := []RawEvent{
		intentEvent(IntentFuelSearch, &EventParameters{
			Fuel: &FuelParameters{FuelType: []string{"diesel", "adblue"}, FuelPriority: "price"},
		}),
		intentEvent(IntentFuelSearch, &EventParameters{
			Fuel: &FuelParameters{FuelType: []string{"diesel"}, FuelPriority: "price"},
		}),
		intentEvent(IntentAmenitySearch, &EventParameters{Amenities: []string{"shower", "parking"}}),
		intentEvent(IntentAmenitySearch, &EventParameters{Amenities: []string{"parking"}}),
	}
	dist := AggregateIntents(events, DefaultMergeRules)

	locator := findIntent(t, dist, IntentSiteLocator)
	require.NotEmpty(t, locator.Parameters.FuelTypes)
	assert.Equal(t, ParamStat{Value: "diesel", Count: 2}, locator.Parameters.FuelTypes[0])
	assert.Equal(t, []ParamStat{{Value: "price", Count: 2}}, locator.Parameters.FuelPriorities)
	assert.Equal(t, ParamStat{Value: "parking", Count: 2}, locator.Parameters.Amenities[0])
}

func TestAmenitiesCollectedFromAmenitySearchOnly(t *testing.T) {
	events := []RawEvent{
		intentEvent(IntentFuelSearch, &EventParameters{
			Amenities: []string{"shower"},
			Fuel:      &FuelParameters{FuelType: []string{"diesel"}},
		}),
		intentEvent(IntentAmenitySearch, &EventParameters{Amenities: []string{"parking"}}),
	}
	dist := AggregateIntents(events, DefaultMergeRules)

	locator := findIntent(t, dist, IntentSiteLocator)
	assert.Equal(t, []ParamStat{{Value: "parking", Count: 1}}, locator.Parameters.Amenities,
		"amenities recorded on fuel searches stay out of the merged list")
}

func TestReservedParametersDoNotLeak(t *testing.T) {
	events := []RawEvent{
		intentEvent("TRANSACTION_HISTORY", &EventParameters{
			Action:    "list",
			Amenities: []string{"shower"},
			Fuel:      &FuelParameters{FuelType: []string{"diesel"}},
		}),
	}
	dist := AggregateIntents(events, DefaultMergeRules)

	stat := findIntent(t, dist, "TRANSACTION_HISTORY")
	assert.Equal(t, []ParamStat{{Value: "list", Count: 1}}, stat.Parameters.Actions)
	assert.Empty(t, stat.Parameters.Amenities)
	assert.Empty(t, stat.Parameters.FuelTypes)
	assert.Empty(t, stat.Parameters.FuelPriorities)
}

func TestIntentPercentagesSumTo100(t *testing.T) {
	events := []RawEvent{
		intentEvent(IntentFuelSearch, nil),
		intentEvent(IntentCardUnlock, nil),
		intentEvent("TRANSACTION_HISTORY", nil),
	}
	dist := AggregateIntents(events, DefaultMergeRules)

	sum := 0.0
	for _, stat := range dist.Intents {
		sum += stat.Percentage
	}
	assert.InDelta(t, 100.0, sum, 0.1)
}

func TestAggregateIntentsEmptyInput(t *testing.T) {
	dist := AggregateIntents(nil, DefaultMergeRules)
	assert.Zero(t, dist.TotalQueries)
	assert.Empty(t, dist.Intents)
}

func TestIntentsSortedDescending(t *testing.T) {
	events := []RawEvent{
		intentEvent("A", nil),
		intentEvent("B", nil),
		intentEvent("B", nil),
	}
	dist := AggregateIntents(events, nil)

	require.Len(t, dist.Intents, 2)
	assert.Equal(t, "B", dist.Intents[0].Intent)
}

func TestAggregateIntentsByPeriod(t *testing.T) {
	events := []RawEvent{
		{Timestamp: "2024-01-01T10:00:00Z", Intent: IntentFuelSearch},
		{Timestamp: "2024-01-02T10:00:00Z", Intent: IntentCardManagement},
		{Timestamp: "2024-01-02T11:00:00Z", Intent: IntentCardManagement},
	}
	grouped := AggregateIntentsByPeriod(events, GranularityDay, DefaultMergeRules)

	require.Len(t, grouped, 2)
	assert.Equal(t, "2024-01-01", grouped[0].Period)
	assert.Equal(t, IntentSiteLocator, grouped[0].Intents[0].Intent)
	assert.Equal(t, 2, grouped[1].Intents[0].Count)
}
