package tasks

import (
	"time"

	"tasknest/internal/service"
)

// DaysPerWeek is the number of buckets in a weekly calendar.
const DaysPerWeek = 7

// Day is one bucket of the weekly calendar.
type Day struct {
	Date  time.Time
	Tasks []service.Task
}

// WeekStart returns local midnight of the most recent Monday on or before now.
func WeekStart(now time.Time) time.Time {
	offset := (int(now.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	y, m, d := now.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, now.Location())
}

// Week partitions tasks with a reminder into the seven days of now's week.
// Tasks without a reminder, or outside the week, are left out.
func Week(all []service.Task, now time.Time) []Day {
	start := WeekStart(now)
	days := make([]Day, DaysPerWeek)
	for i := range days {
		y, m, d := start.Date()
		days[i].Date = time.Date(y, m, d+i, 0, 0, 0, 0, start.Location())
	}
	for _, t := range all {
		if t.Reminder == nil {
			continue
		}
		for i := range days {
			if sameDay(*t.Reminder, days[i].Date) {
				days[i].Tasks = append(days[i].Tasks, t)
				break
			}
		}
	}
	return days
}
