package calendar

import (
	"testing"
	"time"
)

func TestMonthNavigationAnchorsToFirst(t *testing.T) {
	w := Window{Ref: date(2024, time.March, 31), Mode: ModeMonth}

	next := w.NextMonth()
	if next.Ref.Month() != time.April || next.Ref.Day() != 1 {
		t.Errorf("NextMonth from Mar 31 = %s, want 2024-04-01", next.Ref.Format("2006-01-02"))
	}

	back := next.PrevMonth()
	if back.Ref.Month() != time.March || back.Ref.Day() != 1 {
		t.Errorf("PrevMonth after NextMonth = %s, want 2024-03-01", back.Ref.Format("2006-01-02"))
	}
}

func TestNextMonthFromJan31(t *testing.T) {
	// Without the day-1 anchor this would overflow into March.
	w := Window{Ref: date(2024, time.January, 31)}
	next := w.NextMonth()
	if next.Ref.Month() != time.February {
		t.Errorf("NextMonth from Jan 31 landed in %s", next.Ref.Month())
	}
}

func TestMonthNavigationAcrossYears(t *testing.T) {
	w := Window{Ref: date(2024, time.December, 5)}
	if next := w.NextMonth(); next.Ref.Year() != 2025 || next.Ref.Month() != time.January {
		t.Errorf("NextMonth from Dec 2024 = %s", next.Ref.Format("2006-01"))
	}
	w = Window{Ref: date(2024, time.January, 5)}
	if prev := w.PrevMonth(); prev.Ref.Year() != 2023 || prev.Ref.Month() != time.December {
		t.Errorf("PrevMonth from Jan 2024 = %s", prev.Ref.Format("2006-01"))
	}
}

func TestDayAndWeekNavigation(t *testing.T) {
	w := Window{Ref: date(2024, time.January, 31), Mode: ModeDay}
	if next := w.NextDay(); next.Ref.Day() != 1 || next.Ref.Month() != time.February {
		t.Errorf("NextDay from Jan 31 = %s", next.Ref.Format("2006-01-02"))
	}
	if prev := w.PrevWeek(); prev.Ref.Day() != 24 {
		t.Errorf("PrevWeek from Jan 31 = %s", prev.Ref.Format("2006-01-02"))
	}
}

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{date(2024, time.January, 17), date(2024, time.January, 15)}, // Wednesday
		{date(2024, time.January, 15), date(2024, time.January, 15)}, // Monday itself
		{date(2024, time.January, 21), date(2024, time.January, 15)}, // Sunday belongs to the ending week
		{time.Date(2024, time.January, 16, 23, 59, 0, 0, time.Local), date(2024, time.January, 15)},
	}
	for _, tt := range tests {
		got := StartOfWeek(tt.in)
		if !got.Equal(tt.want) {
			t.Errorf("StartOfWeek(%s) = %s, want %s",
				tt.in.Format("2006-01-02"), got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
		}
	}
}

func TestWeekDays(t *testing.T) {
	days := WeekDays(date(2024, time.January, 17))
	if days[0].Weekday() != time.Monday {
		t.Errorf("week starts on %s, want Monday", days[0].Weekday())
	}
	if days[6].Weekday() != time.Sunday {
		t.Errorf("week ends on %s, want Sunday", days[6].Weekday())
	}
	for i := 1; i < 7; i++ {
		if !days[i].Equal(days[i-1].AddDate(0, 0, 1)) {
			t.Fatalf("days not consecutive at index %d", i)
		}
	}
}
