package models

import (
	"strconv"
	"time"
)

// FilterField / SearchFields expose each entity to the dashboard filter
// engine. A dimension may resolve to a scalar, a list (any element can
// satisfy the filter), or a *time.Time for the date dimensions. Status and
// priority values are re-parsed here so rows written with legacy spellings
// still compare against canonical filter values.

func (t Task) FilterField(key string) (any, bool) {
	switch key {
	case "status":
		return string(ParseTaskStatus(string(t.Status))), true
	case "priority":
		return string(ParsePriority(string(t.Priority))), true
	case "assignee":
		// One logical dimension, three match paths: the scalar assignee
		// plus any assigned user or team.
		candidates := make([]string, 0, 1+len(t.AssignedUsers)+len(t.AssignedTeams))
		if t.Assignee != "" {
			candidates = append(candidates, t.Assignee)
		}
		candidates = append(candidates, t.AssignedUsers...)
		candidates = append(candidates, t.AssignedTeams...)
		return candidates, true
	case "tags":
		return []string(t.Tags), true
	case "project", "project_id":
		refs := []string{strconv.FormatUint(uint64(t.ProjectID), 10)}
		if t.Project != nil {
			refs = append(refs, t.Project.Name)
		}
		return refs, true
	case "sprint", "sprint_id":
		if t.SprintID == nil {
			return []string(nil), true
		}
		return strconv.FormatUint(uint64(*t.SprintID), 10), true
	case "dateRange", "dueDate":
		return t.DueDate, true
	case "startDate":
		return t.StartDate, true
	case "createdAt":
		return timePtr(t.CreatedAt), true
	}
	return nil, false
}

func (t Task) SearchFields() []string {
	return []string{t.Title, t.Description}
}

func (p Project) FilterField(key string) (any, bool) {
	switch key {
	case "status":
		return string(p.Status), true
	case "assignee":
		return []string{p.Assignee}, true
	case "dateRange", "createdAt":
		return timePtr(p.CreatedAt), true
	case "startDate":
		return p.StartDate, true
	}
	return nil, false
}

func (p Project) SearchFields() []string {
	return []string{p.Name, p.Description}
}

func (c Company) FilterField(key string) (any, bool) {
	switch key {
	case "status", "active":
		return string(c.Active), true
	case "tags":
		return []string(c.Tags), true
	case "dateRange", "createdAt":
		return timePtr(c.CreatedAt), true
	}
	return nil, false
}

func (c Company) SearchFields() []string {
	return []string{c.Name, c.Description}
}

func (d Department) FilterField(key string) (any, bool) {
	switch key {
	case "status", "active":
		return string(d.Active), true
	case "tags":
		return []string(d.Tags), true
	case "company", "company_id":
		return strconv.FormatUint(uint64(d.CompanyID), 10), true
	case "dateRange", "createdAt":
		return timePtr(d.CreatedAt), true
	}
	return nil, false
}

func (d Department) SearchFields() []string {
	return []string{d.Name, d.Description}
}

func (s Sprint) FilterField(key string) (any, bool) {
	switch key {
	case "status":
		return string(ParseSprintStatus(string(s.Status))), true
	case "project", "project_id":
		return strconv.FormatUint(uint64(s.ProjectID), 10), true
	case "dateRange", "startDate":
		return timePtr(s.StartDate), true
	case "endDate":
		return timePtr(s.EndDate), true
	}
	return nil, false
}

func (s Sprint) SearchFields() []string {
	return []string{s.Name, s.Goal}
}

func (s Story) FilterField(key string) (any, bool) {
	switch key {
	case "status":
		return string(ParseStoryStatus(string(s.Status))), true
	case "priority":
		return string(ParsePriority(string(s.Priority))), true
	case "tags":
		return []string(s.Tags), true
	case "sprint", "sprint_id":
		if s.SprintID == nil {
			return []string(nil), true
		}
		return strconv.FormatUint(uint64(*s.SprintID), 10), true
	case "project", "project_id":
		return strconv.FormatUint(uint64(s.ProjectID), 10), true
	case "dateRange", "createdAt":
		return timePtr(s.CreatedAt), true
	}
	return nil, false
}

func (s Story) SearchFields() []string {
	return []string{s.Title, s.Description}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
