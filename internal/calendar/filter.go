// Package calendar implements the date math behind the month, week and day
// views: day-window overlap testing, month grid construction and window
// navigation. It operates purely on the cached event list; nothing here
// talks to the backend.
package calendar

import (
	"sort"
	"time"

	"github.com/studymate/studymate-bot/internal/models"
)

// DayStart returns midnight of day's calendar date in day's location.
func DayStart(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
}

// DayEnd returns the end of day's overlap window, 23:59:59.999.
func DayEnd(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, int(999*time.Millisecond), day.Location())
}

// Overlaps reports whether the event's [start, end) interval intersects the
// given calendar day. An event ending exactly at midnight does not count on
// the next day; one starting at the day's end boundary does not count on
// that day. Zero-duration events belong to their start day.
func Overlaps(day time.Time, ev models.Event) bool {
	dayStart := DayStart(day)
	dayEnd := DayEnd(day)
	start := ev.StartTime.Time
	end := ev.EndTime.Time

	if start.Equal(end) {
		// A strict interval test would make instantaneous events invisible
		// on every day, so they're pinned to their start date instead.
		return !start.Before(dayStart) && start.Before(dayEnd)
	}
	return start.Before(dayEnd) && end.After(dayStart)
}

// EventsOn returns the events overlapping the given day, ordered by start
// time.
func EventsOn(day time.Time, events []models.Event) []models.Event {
	var out []models.Event
	for _, ev := range events {
		if Overlaps(day, ev) {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime.Time)
	})
	return out
}
