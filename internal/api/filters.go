package api

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trackboard/trackboard/internal/dashboard"
	"github.com/trackboard/trackboard/internal/models"
)

func parseQueryTime(s string) *time.Time {
	return models.ParseTime(s)
}

// Filter dimensions accepted as query parameters on list endpoints.
// Comma-separated values become multi-select filters; "all" and empty
// values are no-ops, matching the dashboard's quick-filter semantics.
var filterParams = map[string]string{
	"status":   "status",
	"priority": "priority",
	"assignee": "assignee",
	"tags":     "tags",
	"project":  "project",
	"company":  "company",
	"sprint":   "sprint",
	"active":   "active",
}

// Dimensions that are always multi-select, even with a single value.
var multiSelectParams = map[string]bool{
	"tags": true,
}

func filtersFromQuery(c *gin.Context) (dashboard.Filters, string) {
	search := c.Query("search")
	if search == "" {
		search = c.Query("q")
	}

	filters := dashboard.Filters{}
	for param, key := range filterParams {
		v := c.Query(param)
		if v == "" {
			continue
		}
		if strings.Contains(v, ",") || multiSelectParams[param] {
			parts := strings.Split(v, ",")
			values := make([]string, 0, len(parts))
			for _, p := range parts {
				if p = strings.TrimSpace(p); p != "" {
					values = append(values, p)
				}
			}
			filters[key] = values
		} else {
			filters[key] = v
		}
	}

	if preset := c.Query("date_range"); preset != "" {
		filters["dateRange"] = preset
	} else if from, to := c.Query("from"), c.Query("to"); from != "" || to != "" {
		r := dashboard.DateRange{}
		if t := parseQueryTime(from); t != nil {
			r.From = *t
		}
		if t := parseQueryTime(to); t != nil {
			r.To = *t
		}
		if !r.From.IsZero() || !r.To.IsZero() {
			filters["dateRange"] = r
		}
	}

	return dashboard.NormalizeFilters(filters), search
}
