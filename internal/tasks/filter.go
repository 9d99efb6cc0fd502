// Package tasks holds the client-side task cache and the views derived from it.
package tasks

import (
	"fmt"
	"strings"
	"time"

	"tasknest/internal/service"
)

// Filter selects which tasks are shown.
type Filter string

const (
	FilterAll        Filter = "all"
	FilterCompleted  Filter = "completed"
	FilterIncomplete Filter = "incomplete"
	FilterHigh       Filter = "high"
	FilterMedium     Filter = "medium"
	FilterLow        Filter = "low"
	FilterToday      Filter = "today"
	FilterWeek       Filter = "week"
	FilterMonth      Filter = "month"
)

// Filters lists every recognised filter in display order.
var Filters = []Filter{
	FilterAll, FilterCompleted, FilterIncomplete,
	FilterHigh, FilterMedium, FilterLow,
	FilterToday, FilterWeek, FilterMonth,
}

// FilterNames returns the recognised filter names joined with ", ".
func FilterNames() string {
	names := make([]string, len(Filters))
	for i, f := range Filters {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// ParseFilter parses a filter name. Empty means all.
func ParseFilter(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FilterAll, nil
	}
	for _, f := range Filters {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid filter: %s", s)
}

// IsDateBased reports whether the filter needs a reminder timestamp.
func (f Filter) IsDateBased() bool {
	return f == FilterToday || f == FilterWeek || f == FilterMonth
}

// Match reports whether task satisfies the filter at time now.
func (f Filter) Match(task service.Task, now time.Time) bool {
	switch f {
	case FilterCompleted:
		return task.Completed
	case FilterIncomplete:
		return !task.Completed
	case FilterHigh:
		return task.Priority == service.PriorityHigh
	case FilterMedium:
		return task.Priority == service.PriorityMedium
	case FilterLow:
		return task.Priority == service.PriorityLow
	case FilterToday:
		return task.Reminder != nil && sameDay(*task.Reminder, now)
	case FilterWeek:
		return task.Reminder != nil && within(*task.Reminder, now, now.AddDate(0, 0, 7))
	case FilterMonth:
		return task.Reminder != nil && within(*task.Reminder, now, addMonth(now))
	}
	return true
}

// Apply returns the tasks matching f, in input order.
// The input slice is never modified.
func Apply(all []service.Task, f Filter, now time.Time) []service.Task {
	out := make([]service.Task, 0, len(all))
	for _, t := range all {
		if f.Match(t, now) {
			out = append(out, t)
		}
	}
	return out
}

// addMonth returns the same wall time one calendar month later. The day is
// clamped to the last day of the target month, so Jan 31 becomes Feb 28.
func addMonth(t time.Time) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+1, 1, 0, 0, 0, 0, t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// within reports from < t < to.
func within(t, from, to time.Time) bool {
	return t.After(from) && t.Before(to)
}

// sameDay compares calendar days in now's location.
func sameDay(t, now time.Time) bool {
	t = t.In(now.Location())
	y1, m1, d1 := t.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
