package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackboard/trackboard/internal/models"
)

func tp(t time.Time) *time.Time { return &t }

func TestMatchesSearch(t *testing.T) {
	company := models.Company{Name: "Acme Corp", Description: "Widgets"}

	assert.True(t, MatchesFilters(company, nil, "acme"))
	assert.True(t, MatchesFilters(company, nil, "ACME"))
	assert.True(t, MatchesFilters(company, nil, "widget"))
	assert.True(t, MatchesFilters(company, nil, ""))
	assert.False(t, MatchesFilters(company, nil, "globex"))
}

func TestSingleValueFilter(t *testing.T) {
	active := models.Company{Name: "Acme", Active: models.ActiveStateActive}
	inactive := models.Company{Name: "Globex", Active: models.ActiveStateInactive}

	filters := Filters{"active": "active"}
	assert.True(t, MatchesFilters(active, filters, ""))
	assert.False(t, MatchesFilters(inactive, filters, ""))

	// The "all" sentinel and empty values never restrict.
	assert.True(t, MatchesFilters(inactive, Filters{"active": "all"}, ""))
	assert.True(t, MatchesFilters(inactive, Filters{"active": ""}, ""))
}

func TestTagIntersection(t *testing.T) {
	rec := models.Company{Name: "Acme", Tags: models.StringList{"a", "b"}}

	assert.True(t, MatchesFilters(rec, Filters{"tags": []string{"b", "c"}}, ""))
	assert.False(t, MatchesFilters(rec, Filters{"tags": []string{"c", "d"}}, ""))
	// Empty multi-select is an open filter.
	assert.True(t, MatchesFilters(rec, Filters{"tags": []string{}}, ""))
	// Values arriving as decoded JSON ([]any) behave the same.
	assert.True(t, MatchesFilters(rec, Filters{"tags": []any{"b"}}, ""))
}

func TestAssigneeMatchesThreePaths(t *testing.T) {
	filters := Filters{"assignee": "alice"}

	direct := models.Task{Title: "t", Assignee: "alice"}
	viaUsers := models.Task{Title: "t", Assignee: "bob", AssignedUsers: models.StringList{"alice"}}
	viaTeams := models.Task{Title: "t", AssignedTeams: models.StringList{"alice"}}
	none := models.Task{Title: "t", Assignee: "bob"}

	assert.True(t, MatchesFilters(direct, filters, ""))
	assert.True(t, MatchesFilters(viaUsers, filters, ""))
	assert.True(t, MatchesFilters(viaTeams, filters, ""))
	assert.False(t, MatchesFilters(none, filters, ""))
}

func TestPriorityCaseNormalized(t *testing.T) {
	task := models.Task{Title: "t", Priority: models.TaskPriority("High")}

	// Source data stores capitalized priorities; queries send lowercase.
	filters := NormalizeFilters(Filters{"priority": "high"})
	assert.True(t, MatchesFilters(task, filters, ""))

	filters = NormalizeFilters(Filters{"priority": "Low"})
	assert.False(t, MatchesFilters(task, filters, ""))
}

func TestStatusVocabularyNormalized(t *testing.T) {
	task := models.Task{Title: "t", Status: models.TaskStatus("In Progress")}

	for _, spelling := range []string{"in_progress", "In Progress", "IN PROGRESS"} {
		filters := NormalizeFilters(Filters{"status": spelling})
		assert.True(t, MatchesFilters(task, filters, ""), "spelling %q", spelling)
	}

	filters := NormalizeFilters(Filters{"status": []string{"done", "Completed"}})
	assert.False(t, MatchesFilters(task, filters, ""))
	assert.True(t, MatchesFilters(models.Task{Title: "t", Status: "done"}, filters, ""))
}

func TestDateRangeInclusiveBounds(t *testing.T) {
	loc := time.Local
	from := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)
	to := time.Date(2025, 3, 20, 0, 0, 0, 0, loc)
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, loc)
	filters := Filters{"dueDate": DateRange{From: from, To: to}}

	atFrom := models.Task{Title: "t", DueDate: tp(time.Date(2025, 3, 10, 0, 0, 0, 0, loc))}
	atTo := models.Task{Title: "t", DueDate: tp(time.Date(2025, 3, 20, 23, 59, 59, 999000000, loc))}
	pastTo := models.Task{Title: "t", DueDate: tp(time.Date(2025, 3, 21, 0, 0, 0, 0, loc))}

	assert.True(t, MatchesFiltersAt(atFrom, filters, "", now))
	assert.True(t, MatchesFiltersAt(atTo, filters, "", now))
	assert.False(t, MatchesFiltersAt(pastTo, filters, "", now))
}

func TestDateRangeTruncatesToDayBoundaries(t *testing.T) {
	loc := time.Local
	// Midday from/to still admit the whole first and last day.
	filters := Filters{"dueDate": DateRange{
		From: time.Date(2025, 3, 10, 14, 30, 0, 0, loc),
		To:   time.Date(2025, 3, 12, 9, 0, 0, 0, loc),
	}}
	now := time.Date(2025, 3, 11, 0, 0, 0, 0, loc)

	earlyFirstDay := models.Task{Title: "t", DueDate: tp(time.Date(2025, 3, 10, 1, 0, 0, 0, loc))}
	lateLastDay := models.Task{Title: "t", DueDate: tp(time.Date(2025, 3, 12, 22, 0, 0, 0, loc))}

	assert.True(t, MatchesFiltersAt(earlyFirstDay, filters, "", now))
	assert.True(t, MatchesFiltersAt(lateLastDay, filters, "", now))
}

func TestDatePresets(t *testing.T) {
	loc := time.Local
	now := time.Date(2025, 6, 18, 15, 0, 0, 0, loc) // a Wednesday

	tests := []struct {
		name   string
		preset string
		due    time.Time
		want   bool
	}{
		{"today matches same day", "today", time.Date(2025, 6, 18, 23, 0, 0, 0, loc), true},
		{"today rejects tomorrow", "today", time.Date(2025, 6, 19, 1, 0, 0, 0, loc), false},
		{"week matches same week", "week", time.Date(2025, 6, 16, 8, 0, 0, 0, loc), true},
		{"thisWeek alias", "thisWeek", time.Date(2025, 6, 21, 8, 0, 0, 0, loc), true},
		{"week rejects next week", "week", time.Date(2025, 6, 23, 8, 0, 0, 0, loc), false},
		{"month matches month start", "month", time.Date(2025, 6, 1, 0, 0, 0, 0, loc), true},
		{"thisMonth rejects july", "thisMonth", time.Date(2025, 7, 1, 0, 0, 0, 0, loc), false},
		{"next7Days matches", "next7Days", time.Date(2025, 6, 24, 9, 0, 0, 0, loc), true},
		{"next7Days rejects 8 days out", "next7Days", time.Date(2025, 6, 26, 9, 0, 0, 0, loc), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := models.Task{Title: "t", DueDate: tp(tt.due)}
			got := MatchesFiltersAt(task, Filters{"dueDate": tt.preset}, "", now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMissingDateFailsActiveDateFilter(t *testing.T) {
	now := time.Date(2025, 6, 18, 15, 0, 0, 0, time.Local)
	task := models.Task{Title: "t"} // no due date

	assert.False(t, MatchesFiltersAt(task, Filters{"dueDate": "today"}, "", now))
	// With no date filter active, the task passes.
	assert.True(t, MatchesFiltersAt(task, Filters{}, "", now))
}

func TestRangeFromDecodedJSONObject(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.Local)
	task := models.Task{Title: "t", DueDate: tp(time.Date(2025, 3, 12, 10, 0, 0, 0, time.Local))}

	filters := Filters{"dueDate": map[string]any{"from": "2025-03-10", "to": "2025-03-14"}}
	assert.True(t, MatchesFiltersAt(task, filters, "", now))

	filters = Filters{"dueDate": map[string]any{"from": "2025-03-13"}}
	assert.False(t, MatchesFiltersAt(task, filters, "", now))
}

func TestPredicateIsPure(t *testing.T) {
	now := time.Now()
	task := models.Task{Title: "Build report", Status: "in_progress", Tags: models.StringList{"q3"}}
	filters := Filters{"status": "in_progress", "tags": []string{"q3"}}

	first := MatchesFiltersAt(task, filters, "report", now)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, MatchesFiltersAt(task, filters, "report", now))
	}
	assert.True(t, first)
}

func TestFilterMonotonicity(t *testing.T) {
	tasks := []models.Task{
		{Title: "a", Status: "todo", Priority: "high", Tags: models.StringList{"x"}},
		{Title: "b", Status: "todo", Priority: "low"},
		{Title: "c", Status: "completed", Priority: "high"},
		{Title: "d", Status: "in_progress", Priority: "high", Tags: models.StringList{"x", "y"}},
	}

	base := Filters{"status": []string{"todo", "in_progress"}}
	narrowed := Filters{"status": []string{"todo", "in_progress"}, "priority": "high"}

	baseSet := Apply(tasks, base, "")
	narrowedSet := Apply(tasks, narrowed, "")

	// Adding an active dimension never grows the result set, and every
	// survivor of the narrowed filter is in the base set.
	require.LessOrEqual(t, len(narrowedSet), len(baseSet))
	for _, n := range narrowedSet {
		found := false
		for _, b := range baseSet {
			if b.Title == n.Title {
				found = true
			}
		}
		assert.True(t, found, "task %q escaped the base filter", n.Title)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	tasks := []models.Task{
		{Title: "keep", Status: "todo"},
		{Title: "drop", Status: "completed"},
	}
	got := Apply(tasks, Filters{"status": "todo"}, "")

	require.Len(t, got, 1)
	assert.Equal(t, "keep", got[0].Title)
	assert.Len(t, tasks, 2)
	assert.Equal(t, "drop", tasks[1].Title)
}
