package calendar

import (
	"testing"
	"time"

	"github.com/studymate/studymate-bot/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func at(y int, m time.Month, d, hh, mm int) models.Timestamp {
	return models.Timestamp{Time: time.Date(y, m, d, hh, mm, 0, 0, time.Local)}
}

func event(id string, start, end models.Timestamp, eventType string) models.Event {
	return models.Event{
		ID:        models.ID(id),
		Title:     "event " + id,
		StartTime: start,
		EndTime:   end,
		EventType: eventType,
	}
}

func TestOverlapsMidnightSpan(t *testing.T) {
	// 23:30 Jan 15 to 00:30 Jan 16 belongs to both days.
	ev := event("1", at(2024, time.January, 15, 23, 30), at(2024, time.January, 16, 0, 30), "meeting")

	if !Overlaps(date(2024, time.January, 15), ev) {
		t.Error("expected overlap on Jan 15")
	}
	if !Overlaps(date(2024, time.January, 16), ev) {
		t.Error("expected overlap on Jan 16")
	}
	if Overlaps(date(2024, time.January, 17), ev) {
		t.Error("unexpected overlap on Jan 17")
	}
}

func TestOverlapsEndAtMidnight(t *testing.T) {
	// Ending exactly at midnight does not spill into the next day.
	ev := event("1", at(2024, time.January, 15, 22, 0), at(2024, time.January, 16, 0, 0), "meeting")

	if !Overlaps(date(2024, time.January, 15), ev) {
		t.Error("expected overlap on Jan 15")
	}
	if Overlaps(date(2024, time.January, 16), ev) {
		t.Error("event ending at midnight must not count on the next day")
	}
}

func TestOverlapsStartAtDayEndBoundary(t *testing.T) {
	start := models.Timestamp{Time: DayEnd(date(2024, time.January, 15))}
	end := models.Timestamp{Time: start.Add(time.Hour)}
	ev := event("1", start, end, "meeting")

	if Overlaps(date(2024, time.January, 15), ev) {
		t.Error("event starting at the day's end boundary must not count on that day")
	}
	if !Overlaps(date(2024, time.January, 16), ev) {
		t.Error("expected overlap on Jan 16")
	}
}

func TestOverlapsZeroDuration(t *testing.T) {
	// Instantaneous events belong to their start day rather than being
	// invisible everywhere.
	ev := event("1", at(2024, time.January, 15, 10, 0), at(2024, time.January, 15, 10, 0), "deadline")

	if !Overlaps(date(2024, time.January, 15), ev) {
		t.Error("zero-duration event should belong to its start day")
	}
	if Overlaps(date(2024, time.January, 14), ev) {
		t.Error("unexpected overlap on the previous day")
	}
	if Overlaps(date(2024, time.January, 16), ev) {
		t.Error("unexpected overlap on the next day")
	}
}

func TestEventsOnSortsByStart(t *testing.T) {
	events := []models.Event{
		event("late", at(2024, time.January, 15, 15, 0), at(2024, time.January, 15, 16, 0), "meeting"),
		event("early", at(2024, time.January, 15, 9, 0), at(2024, time.January, 15, 10, 0), "exam"),
		event("other-day", at(2024, time.January, 20, 9, 0), at(2024, time.January, 20, 10, 0), "exam"),
	}

	got := EventsOn(date(2024, time.January, 15), events)
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].ID != "early" || got[1].ID != "late" {
		t.Errorf("wrong order: %s, %s", got[0].ID, got[1].ID)
	}
}
