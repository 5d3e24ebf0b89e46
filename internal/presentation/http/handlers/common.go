// Package handlers provides HTTP handlers for the analytics API.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/FleetPulse/fleetpulse-go/internal/application/filters"
	"github.com/FleetPulse/fleetpulse-go/internal/domain/analytics"
)

// filterStateFromQuery starts from the shared filter state and overrides it
// with any filter query parameters present on the request.
func filterStateFromQuery(c *gin.Context, store *filters.Store) filters.FilterState {
	state := filters.FilterState{}
	if store != nil {
		state = store.Get()
	}
	if v, ok := c.GetQuery("startDate"); ok {
		state.StartDate = v
	}
	if v, ok := c.GetQuery("endDate"); ok {
		state.EndDate = v
	}
	if v, ok := c.GetQuery("accountCode"); ok {
		state.AccountCode = v
	}
	if v, ok := c.GetQuery("userId"); ok {
		state.UserID = v
	}
	return state
}

func granularityFromQuery(c *gin.Context) analytics.Granularity {
	return analytics.ParseGranularity(c.Query("granularity"))
}
