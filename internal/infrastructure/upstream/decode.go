package upstream

import (
	"encoding/json"

	"github.com/FleetPulse/fleetpulse-go/internal/domain/analytics"
)

// Pagination mirrors the optional pagination block on analytics pages. When
// the upstream omits it, end-of-data is inferred from a short page.
type Pagination struct {
	HasNextPage bool `json:"hasNextPage"`
	TotalPages  int  `json:"totalPages"`
	Page        int  `json:"page"`
}

type wrappedEvents struct {
	Entries    []analytics.RawEvent `json:"entries"`
	Data       []analytics.RawEvent `json:"data"`
	Pagination *Pagination          `json:"pagination"`
}

// decodeEventPage normalizes the three wire shapes an analytics page may
// arrive in: a bare array, {entries: [...]}, or {data: [...]}. A response
// carrying none of them decodes to zero records with ok=false so the caller
// can log the contract violation and continue.
func decodeEventPage(body []byte) (events []analytics.RawEvent, pagination *Pagination, ok bool, err error) {
	trimmed := firstNonSpace(body)
	if trimmed == '[' {
		if err := json.Unmarshal(body, &events); err != nil {
			return nil, nil, false, err
		}
		return events, nil, true, nil
	}

	var wrapped wrappedEvents
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, nil, false, err
	}
	switch {
	case wrapped.Entries != nil:
		return wrapped.Entries, wrapped.Pagination, true, nil
	case wrapped.Data != nil:
		return wrapped.Data, wrapped.Pagination, true, nil
	}
	return nil, wrapped.Pagination, false, nil
}

func firstNonSpace(body []byte) byte {
	for _, b := range body {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}
