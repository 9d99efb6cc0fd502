// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"tasknest/internal/notes"
	"tasknest/internal/service"
	"tasknest/internal/tasks"
)

const (
	// ListSeparator is the separator line for section headers.
	ListSeparator = "------------"

	// EmptyDay is printed under a calendar day with no reminders.
	EmptyDay = "No tasks scheduled"

	// ReminderLayout is how reminders are shown.
	ReminderLayout = "Mon Jan 2 15:04"

	// minIDLen is the shortest note ID prefix shown.
	minIDLen = 6
)

// Theme holds the styles for one output stream.
type Theme struct {
	Dark bool

	Header   lipgloss.Style
	Done     lipgloss.Style
	Muted    lipgloss.Style
	High     lipgloss.Style
	Medium   lipgloss.Style
	Low      lipgloss.Style
	Reminder lipgloss.Style
}

// NewTheme returns styles rendered for w. Colour is dropped automatically
// when w is not a terminal.
func NewTheme(w io.Writer, dark bool) Theme {
	r := lipgloss.NewRenderer(w)
	r.SetHasDarkBackground(dark)

	high, medium, low := lipgloss.Color("#C0392B"), lipgloss.Color("#B9770E"), lipgloss.Color("#1E8449")
	muted, accent := lipgloss.Color("#7F8C8D"), lipgloss.Color("#2E86C1")
	if dark {
		high, medium, low = lipgloss.Color("#FF6B6B"), lipgloss.Color("#FFD166"), lipgloss.Color("#06D6A0")
		muted, accent = lipgloss.Color("#A0A0A0"), lipgloss.Color("#74B9FF")
	}
	return Theme{
		Dark:     dark,
		Header:   r.NewStyle().Bold(true),
		Done:     r.NewStyle().Strikethrough(true).Foreground(muted),
		Muted:    r.NewStyle().Foreground(muted),
		High:     r.NewStyle().Bold(true).Foreground(high),
		Medium:   r.NewStyle().Foreground(medium),
		Low:      r.NewStyle().Foreground(low),
		Reminder: r.NewStyle().Foreground(accent),
	}
}

func (th Theme) priority(p service.Priority) string {
	label := "(" + string(p) + ")"
	switch p {
	case service.PriorityHigh:
		return th.High.Render(label)
	case service.PriorityLow:
		return th.Low.Render(label)
	default:
		return th.Medium.Render(label)
	}
}

// FormatTask formats a task line.
// Format: "{ID:>4}  [x] {TITLE}  ({PRIORITY})[  @ {REMINDER}]"
func FormatTask(w io.Writer, th Theme, task service.Task) {
	check, title := "[ ]", normalizeTitle(task.Title)
	if task.Completed {
		check = "[x]"
		title = th.Done.Render(title)
	}
	line := fmt.Sprintf("%4d  %s %s  %s", task.ID, check, title, th.priority(task.Priority))
	if task.HasReminder() {
		line += "  " + th.Reminder.Render("@ "+task.Reminder.Local().Format(ReminderLayout))
	}
	fmt.Fprintln(w, line)
}

// FormatWeek prints the seven calendar days, each with its tasks or a placeholder.
func FormatWeek(w io.Writer, th Theme, days []tasks.Day, now time.Time) {
	for i, day := range days {
		if i > 0 {
			fmt.Fprintln(w)
		}
		header := day.Date.Format("Mon 02 Jan")
		if sameDate(day.Date, now) {
			header += " (today)"
		}
		fmt.Fprintln(w, th.Header.Render(header))
		if len(day.Tasks) == 0 {
			fmt.Fprintln(w, "    "+th.Muted.Render(EmptyDay))
			continue
		}
		for _, task := range day.Tasks {
			check := "[ ]"
			if task.Completed {
				check = "[x]"
			}
			fmt.Fprintf(w, "    %s %s  %s  %s\n",
				task.Reminder.Local().Format("15:04"), check, normalizeTitle(task.Title), th.priority(task.Priority))
		}
	}
}

// FormatHeader formats a section header.
func FormatHeader(w io.Writer, th Theme, title string) {
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintln(w, th.Header.Render(title))
	fmt.Fprintln(w, ListSeparator)
}

// FormatEntries prints note or journal entries with the shortest unambiguous
// ID prefix (at least six characters).
func FormatEntries(w io.Writer, th Theme, entries []notes.Entry) {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	n := UniquePrefixLen(ids, minIDLen)
	for i, e := range entries {
		short := e.ID
		if len(short) > n {
			short = short[:n]
		}
		fmt.Fprintf(w, "%3d  %s  %s\n", i+1, th.Muted.Render(strings.ToLower(short)), normalizeTitle(e.Text))
	}
}

// UniquePrefixLen returns the smallest length >= minLen at which every ID's
// prefix is distinct.
func UniquePrefixLen(ids []string, minLen int) int {
	n := minLen
	for {
		seen := make(map[string]bool, len(ids))
		clash, longest := false, 0
		for _, id := range ids {
			if len(id) > longest {
				longest = len(id)
			}
			p := id
			if len(p) > n {
				p = p[:n]
			}
			if seen[p] {
				clash = true
			}
			seen[p] = true
		}
		if !clash || n >= longest {
			return n
		}
		n++
	}
}

func sameDate(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// normalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
