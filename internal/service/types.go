package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Priority is a task priority level.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// ParsePriority parses a priority name, case-insensitive.
// Accepts the full names and their first letters.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "h":
		return PriorityHigh, nil
	case "medium", "med", "m":
		return PriorityMedium, nil
	case "low", "l":
		return PriorityLow, nil
	}
	return "", fmt.Errorf("invalid priority: %s", s)
}

// Known reports whether p is one of the three levels.
func (p Priority) Known() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// Wire layouts for reminder_time. The store emits zone-less local times.
const (
	reminderLayout       = "2006-01-02T15:04:05"
	reminderMinuteLayout = "2006-01-02T15:04"
)

// ParseReminder parses a reminder timestamp. Zone-less values are read in loc.
func ParseReminder(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range []string{reminderLayout, reminderMinuteLayout, "2006-01-02T15:04:05.999999", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid reminder time: %q", s)
}

// FormatReminder formats a reminder for the wire.
func FormatReminder(t time.Time) string {
	return t.Local().Format(reminderLayout)
}

// Task represents a single task item.
type Task struct {
	ID        int64
	Title     string
	Completed bool
	Priority  Priority
	Reminder  *time.Time // nil when no reminder is set
}

// HasReminder reports whether the task carries a reminder timestamp.
func (t Task) HasReminder() bool {
	return t.Reminder != nil
}

type taskJSON struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Completed    bool    `json:"completed"`
	Priority     string  `json:"priority"`
	ReminderTime *string `json:"reminder_time"`
}

// MarshalJSON encodes the task in the store's wire format.
func (t Task) MarshalJSON() ([]byte, error) {
	w := taskJSON{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		Priority:  string(t.Priority),
	}
	if t.Reminder != nil {
		s := FormatReminder(*t.Reminder)
		w.ReminderTime = &s
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the store's wire format.
// A missing priority decodes as Medium and an unrecognised one is kept as
// sent. An empty reminder decodes as no reminder.
func (t *Task) UnmarshalJSON(data []byte) error {
	var w taskJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	prio := PriorityMedium
	if raw := strings.TrimSpace(w.Priority); raw != "" {
		p, err := ParsePriority(raw)
		if err != nil {
			p = Priority(raw)
		}
		prio = p
	}
	*t = Task{
		ID:        w.ID,
		Title:     w.Title,
		Completed: w.Completed,
		Priority:  prio,
	}
	if w.ReminderTime != nil && strings.TrimSpace(*w.ReminderTime) != "" {
		r, err := ParseReminder(*w.ReminderTime, time.Local)
		if err != nil {
			return err
		}
		t.Reminder = &r
	}
	return nil
}

// NewTask is the body of a create request.
type NewTask struct {
	Title    string
	Priority Priority
	Reminder *time.Time
}

// MarshalJSON encodes the create body. reminder_time is always present.
func (n NewTask) MarshalJSON() ([]byte, error) {
	prio := n.Priority
	if prio == "" {
		prio = PriorityMedium
	}
	w := struct {
		Title        string  `json:"title"`
		ReminderTime *string `json:"reminder_time"`
		Priority     string  `json:"priority"`
	}{Title: n.Title, Priority: string(prio)}
	if n.Reminder != nil {
		s := FormatReminder(*n.Reminder)
		w.ReminderTime = &s
	}
	return json.Marshal(w)
}

// TaskPatch is a partial update. Nil fields are left untouched by the store.
type TaskPatch struct {
	Title     *string
	Completed *bool
	Priority  *Priority

	// Reminder sets a new reminder. ClearReminder removes it and wins over Reminder.
	Reminder      *time.Time
	ClearReminder bool
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil && p.Priority == nil && p.Reminder == nil && !p.ClearReminder
}

// Apply returns t with the patch applied locally.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	switch {
	case p.ClearReminder:
		t.Reminder = nil
	case p.Reminder != nil:
		r := *p.Reminder
		t.Reminder = &r
	}
	return t
}

// MarshalJSON emits only the fields being changed.
// A cleared reminder is sent as an empty string.
func (p TaskPatch) MarshalJSON() ([]byte, error) {
	m := make(map[string]any)
	if p.Title != nil {
		m["title"] = *p.Title
	}
	if p.Completed != nil {
		m["completed"] = *p.Completed
	}
	if p.Priority != nil {
		m["priority"] = string(*p.Priority)
	}
	switch {
	case p.ClearReminder:
		m["reminder_time"] = ""
	case p.Reminder != nil:
		m["reminder_time"] = FormatReminder(*p.Reminder)
	}
	return json.Marshal(m)
}
