package dashboard

import (
	"strings"
	"time"

	"github.com/trackboard/trackboard/internal/models"
)

// Filters maps a filter dimension to its configured value. The value's
// dynamic shape decides the matching rule: a string is a single-value
// dropdown ("all" means unrestricted), a []string is a multi-select quick
// filter (empty means unrestricted), and a DateRange or preset name applies
// to the record's date dimension. There is no type tag; dispatch is on shape.
type Filters map[string]any

// DateRange is an explicit from/to window. A zero From or To leaves that end
// open. Both ends are inclusive after day truncation: From is compared from
// local midnight, To through the last instant of its day.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Record is the engine's view of a filterable entity. FilterField returns
// the record's value for a filter dimension: a string, a []string (any
// element may satisfy the filter), or a *time.Time for date dimensions.
// SearchFields returns the text fields the search term is matched against.
type Record interface {
	FilterField(key string) (any, bool)
	SearchFields() []string
}

// MatchesFilters reports whether rec survives the filter configuration plus
// search term: search AND every active dimension must pass, where values
// inside one multi-select dimension are OR'd.
func MatchesFilters(rec Record, filters Filters, search string) bool {
	return matchesFiltersAt(rec, filters, search, time.Now())
}

// MatchesFiltersAt is MatchesFilters with an explicit "now" for preset date
// ranges ("today", "week", ...).
func MatchesFiltersAt(rec Record, filters Filters, search string, now time.Time) bool {
	return matchesFiltersAt(rec, filters, search, now)
}

func matchesFiltersAt(rec Record, filters Filters, search string, now time.Time) bool {
	if !matchesSearch(rec, search) {
		return false
	}
	for key, value := range filters {
		if !filterActive(value) {
			continue
		}
		field, ok := rec.FilterField(key)
		if !ok {
			return false
		}
		if !matchValue(field, value, now) {
			return false
		}
	}
	return true
}

// Apply filters a snapshot down to the records matching the configuration.
// The input slice is never mutated.
func Apply[T Record](items []T, filters Filters, search string) []T {
	return ApplyAt(items, filters, search, time.Now())
}

func ApplyAt[T Record](items []T, filters Filters, search string, now time.Time) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if matchesFiltersAt(item, filters, search, now) {
			out = append(out, item)
		}
	}
	return out
}

// NormalizeFilters canonicalizes status and priority filter values so that
// mixed external spellings ("In Progress", "High") compare equal to stored
// canonical forms. Called once at the boundary; the engine itself compares
// exact strings.
func NormalizeFilters(filters Filters) Filters {
	if filters == nil {
		return nil
	}
	out := make(Filters, len(filters))
	for key, value := range filters {
		switch key {
		case "status":
			out[key] = mapStrings(value, func(s string) string {
				if s == "all" || s == "" {
					return s
				}
				return string(models.ParseTaskStatus(s))
			})
		case "priority":
			out[key] = mapStrings(value, func(s string) string {
				if s == "all" || s == "" {
					return s
				}
				return string(models.ParsePriority(s))
			})
		default:
			out[key] = value
		}
	}
	return out
}

func mapStrings(value any, fn func(string) string) any {
	switch v := value.(type) {
	case string:
		return fn(v)
	case []string:
		out := make([]string, len(v))
		for i, s := range v {
			out[i] = fn(s)
		}
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, fn(s))
			}
		}
		return out
	}
	return value
}

// filterActive reports whether a filter value restricts anything. "all",
// empty strings, and empty arrays are no-ops.
func filterActive(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != "" && v != "all"
	case []string:
		return len(v) > 0
	case []any:
		return len(v) > 0
	}
	return true
}

func matchesSearch(rec Record, search string) bool {
	search = strings.TrimSpace(strings.ToLower(search))
	if search == "" {
		return true
	}
	for _, field := range rec.SearchFields() {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func matchValue(field any, value any, now time.Time) bool {
	switch f := field.(type) {
	case *time.Time:
		if f == nil {
			// Missing or unparseable dates never match an active date
			// filter.
			return false
		}
		return matchDate(*f, value, now)
	case time.Time:
		return matchDate(f, value, now)
	case string:
		return matchScalar(f, value)
	case []string:
		return matchList(f, value)
	case models.StringList:
		return matchList([]string(f), value)
	}
	return false
}

func matchScalar(field string, value any) bool {
	switch v := value.(type) {
	case string:
		return field == v
	case []string:
		for _, s := range v {
			if field == s {
				return true
			}
		}
		return false
	case []any:
		for _, e := range v {
			if s, ok := e.(string); ok && field == s {
				return true
			}
		}
		return false
	}
	return false
}

func matchList(field []string, value any) bool {
	switch v := value.(type) {
	case string:
		for _, f := range field {
			if f == v {
				return true
			}
		}
		return false
	case []string:
		return intersects(field, v)
	case []any:
		strs := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				strs = append(strs, s)
			}
		}
		return intersects(field, strs)
	}
	return false
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func matchDate(t time.Time, value any, now time.Time) bool {
	r, ok := rangeFromValue(value, now)
	if !ok {
		return false
	}
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// rangeFromValue resolves a date filter value into an inclusive window.
// Accepts preset names interpreted relative to now, DateRange values, and
// decoded JSON objects with "from"/"to" keys.
func rangeFromValue(value any, now time.Time) (DateRange, bool) {
	switch v := value.(type) {
	case DateRange:
		return truncateRange(v), true
	case *DateRange:
		if v == nil {
			return DateRange{}, false
		}
		return truncateRange(*v), true
	case string:
		return presetRange(v, now)
	case map[string]any:
		var r DateRange
		if from, ok := v["from"]; ok {
			if t := coerceTime(from); t != nil {
				r.From = *t
			}
		}
		if to, ok := v["to"]; ok {
			if t := coerceTime(to); t != nil {
				r.To = *t
			}
		}
		if r.From.IsZero() && r.To.IsZero() {
			return DateRange{}, false
		}
		return truncateRange(r), true
	}
	return DateRange{}, false
}

func coerceTime(v any) *time.Time {
	switch t := v.(type) {
	case time.Time:
		return &t
	case *time.Time:
		return t
	case string:
		return models.ParseTime(t)
	}
	return nil
}

func presetRange(name string, now time.Time) (DateRange, bool) {
	today := startOfDay(now)
	switch name {
	case "today":
		return DateRange{From: today, To: endOfDay(now)}, true
	case "week", "thisWeek":
		start := today.AddDate(0, 0, -int(today.Weekday()))
		return DateRange{From: start, To: endOfDay(start.AddDate(0, 0, 6))}, true
	case "month", "thisMonth":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return DateRange{From: start, To: endOfDay(start.AddDate(0, 1, -1))}, true
	case "next7Days":
		return DateRange{From: today, To: endOfDay(now.AddDate(0, 0, 7))}, true
	}
	return DateRange{}, false
}

func truncateRange(r DateRange) DateRange {
	if !r.From.IsZero() {
		r.From = startOfDay(r.From)
	}
	if !r.To.IsZero() {
		r.To = endOfDay(r.To)
	}
	return r
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOfDay is the last representable instant of t's day, so an inclusive
// comparison admits 23:59:59.999 but not the following midnight.
func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
