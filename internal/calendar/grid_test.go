package calendar

import (
	"testing"
	"time"

	"github.com/studymate/studymate-bot/internal/models"
)

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.January, 31},
		{2024, time.February, 29}, // leap year
		{2023, time.February, 28},
		{2000, time.February, 29}, // divisible by 400
		{1900, time.February, 28}, // divisible by 100 but not 400
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, tt := range tests {
		got := DaysInMonth(date(tt.year, tt.month, 1))
		if got != tt.want {
			t.Errorf("DaysInMonth(%d-%02d) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestFirstWeekdayOffset(t *testing.T) {
	// Jan 1 2024 is a Monday, Sep 1 2024 a Sunday.
	if got := FirstWeekdayOffset(date(2024, time.January, 15)); got != 1 {
		t.Errorf("January 2024 offset = %d, want 1", got)
	}
	if got := FirstWeekdayOffset(date(2024, time.September, 10)); got != 0 {
		t.Errorf("September 2024 offset = %d, want 0", got)
	}
}

func TestBuildGridLength(t *testing.T) {
	refs := []time.Time{
		date(2024, time.January, 1),
		date(2024, time.February, 10),
		date(2023, time.February, 28),
		date(2024, time.September, 1),
		date(2025, time.December, 31),
	}
	now := date(2020, time.June, 1)
	for _, ref := range refs {
		cells := BuildGrid(ref, nil, now)
		want := FirstWeekdayOffset(ref) + DaysInMonth(ref)
		if len(cells) != want {
			t.Errorf("grid for %s has %d cells, want %d", ref.Format("2006-01"), len(cells), want)
		}
	}
}

func TestBuildGridBlankCells(t *testing.T) {
	cells := BuildGrid(date(2024, time.January, 1), nil, date(2020, time.June, 1))
	if !cells[0].Blank || cells[0].Day != 0 {
		t.Error("first cell of January 2024 should be blank")
	}
	if cells[1].Blank || cells[1].Day != 1 {
		t.Errorf("second cell should be day 1, got %+v", cells[1])
	}
	last := cells[len(cells)-1]
	if last.Day != 31 {
		t.Errorf("last cell should be day 31, got %d", last.Day)
	}
}

func TestBuildGridToday(t *testing.T) {
	now := time.Date(2024, time.January, 15, 14, 30, 0, 0, time.Local)

	cells := BuildGrid(date(2024, time.January, 1), nil, now)
	var todays []int
	for _, c := range cells {
		if c.IsToday {
			todays = append(todays, c.Day)
		}
	}
	if len(todays) != 1 || todays[0] != 15 {
		t.Errorf("expected exactly day 15 marked today, got %v", todays)
	}

	// Viewing another month must leave no cell marked.
	cells = BuildGrid(date(2024, time.February, 1), nil, now)
	for _, c := range cells {
		if c.IsToday {
			t.Fatalf("day %d marked today in a month the current date is not in", c.Day)
		}
	}
}

func TestBuildGridIndicators(t *testing.T) {
	events := []models.Event{
		event("1", at(2024, time.January, 15, 9, 0), at(2024, time.January, 15, 10, 0), "exam"),
		event("2", at(2024, time.January, 15, 11, 0), at(2024, time.January, 15, 12, 0), "exam"),
		event("3", at(2024, time.January, 15, 14, 0), at(2024, time.January, 15, 15, 0), "deadline"),
	}
	cells := BuildGrid(date(2024, time.January, 1), events, date(2020, time.June, 1))

	cell := cells[FirstWeekdayOffset(date(2024, time.January, 1))+14]
	if cell.Day != 15 {
		t.Fatalf("indexed wrong cell: day %d", cell.Day)
	}
	if cell.Count != 3 {
		t.Errorf("Count = %d, want 3", cell.Count)
	}
	if len(cell.Types) != 2 || cell.Types[0] != "exam" || cell.Types[1] != "deadline" {
		t.Errorf("Types = %v, want [exam deadline]", cell.Types)
	}
}

func TestBuildGridMidnightSpanAppearsOnBothDays(t *testing.T) {
	events := []models.Event{
		event("1", at(2024, time.January, 15, 23, 30), at(2024, time.January, 16, 0, 30), "meeting"),
	}
	cells := BuildGrid(date(2024, time.January, 1), events, date(2020, time.June, 1))
	offset := FirstWeekdayOffset(date(2024, time.January, 1))

	if cells[offset+14].Count != 1 {
		t.Error("expected event on Jan 15 cell")
	}
	if cells[offset+15].Count != 1 {
		t.Error("expected event on Jan 16 cell")
	}
	if cells[offset+16].Count != 0 {
		t.Error("unexpected event on Jan 17 cell")
	}
}
