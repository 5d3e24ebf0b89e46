// Package analytics provides the pure aggregation core for FleetPulse:
// time bucketing, sentiment, intent, user cohort, and account rollups
// computed over raw assistant interaction events.
package analytics

// Sentiment labels emitted by the upstream classifier.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
	SentimentMixed    = "mixed"
	SentimentUnknown  = "unknown"
)

// FuelParameters carries the fuel-specific slice of an interaction's parameters.
type FuelParameters struct {
	FuelType     []string `json:"fuel_type,omitempty"`
	FuelPriority string   `json:"fuel_priority,omitempty"`
}

// EventParameters holds the optional structured parameters attached to an interaction.
type EventParameters struct {
	Action    string          `json:"action,omitempty"`
	Amenities []string        `json:"amenities,omitempty"`
	Fuel      *FuelParameters `json:"fuel,omitempty"`
}

// RawEvent is one assistant interaction as delivered by the upstream API.
// Events are immutable once decoded; aggregation never mutates them.
type RawEvent struct {
	UserID       string           `json:"userId"`
	Timestamp    string           `json:"timestamp"`
	Sentiment    string           `json:"sentiment"`
	Intent       string           `json:"intent"`
	ResponseTime float64          `json:"responseTime"`
	SysAccountID string           `json:"sysAccountId"`
	Parameters   *EventParameters `json:"parameters,omitempty"`
}

// NormalizedSentiment returns the event's sentiment label, mapping an absent
// value to "unknown". Events are never dropped for missing sentiment.
func (e RawEvent) NormalizedSentiment() string {
	if e.Sentiment == "" {
		return SentimentUnknown
	}
	return e.Sentiment
}

// Session is one assistant conversation as delivered by the upstream API.
type Session struct {
	SessionID    string `json:"sessionId"`
	UserID       string `json:"userId"`
	SysAccountID string `json:"sysAccountId"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime,omitempty"`
	QueryCount   int    `json:"queryCount"`
}

// SessionsPayload is the upstream sessions response normalized for callers.
type SessionsPayload struct {
	Sessions      []Session `json:"sessions"`
	TotalSessions int       `json:"totalSessions"`
}

// FeedbackEntry is one product feedback record. Type codes follow the
// upstream convention: H = help request, E = enhancement, S = satisfaction.
type FeedbackEntry struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	Type        string  `json:"type"`
	Module      string  `json:"module"`
	Feature     string  `json:"feature"`
	Rating      float64 `json:"rating"`
	Comment     string  `json:"comment,omitempty"`
	CreatedDate string  `json:"createdDate"`
}
