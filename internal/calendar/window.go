package calendar

import "time"

// ViewMode selects which slice of the event list a window renders.
type ViewMode int

const (
	ModeMonth ViewMode = iota
	ModeWeek
	ModeDay
)

// Window is the ephemeral view state: a reference date (distinct from
// "today") plus a view mode. It is recomputed on every navigation action and
// never persisted.
type Window struct {
	Ref  time.Time
	Mode ViewMode
}

// PrevMonth and NextMonth reset the day-of-month to 1 before shifting the
// month. Navigating forward from Jan 31 must land in February, not overflow
// into March.
func (w Window) PrevMonth() Window { return w.shiftMonth(-1) }
func (w Window) NextMonth() Window { return w.shiftMonth(1) }

func (w Window) shiftMonth(months int) Window {
	first := time.Date(w.Ref.Year(), w.Ref.Month(), 1, 0, 0, 0, 0, w.Ref.Location())
	w.Ref = first.AddDate(0, months, 0)
	return w
}

func (w Window) PrevWeek() Window { return w.shiftDays(-7) }
func (w Window) NextWeek() Window { return w.shiftDays(7) }
func (w Window) PrevDay() Window  { return w.shiftDays(-1) }
func (w Window) NextDay() Window  { return w.shiftDays(1) }

func (w Window) shiftDays(days int) Window {
	w.Ref = w.Ref.AddDate(0, 0, days)
	return w
}

// StartOfWeek returns midnight of the Monday of t's week. Sundays resolve to
// the previous Monday. Every week computation goes through this helper so the
// week convention stays consistent across views.
func StartOfWeek(t time.Time) time.Time {
	shift := int(t.Weekday()) - int(time.Monday)
	if shift < 0 {
		shift += 7
	}
	return DayStart(t.AddDate(0, 0, -shift))
}

// WeekDays returns the seven days of t's week, Monday first.
func WeekDays(t time.Time) [7]time.Time {
	var days [7]time.Time
	start := StartOfWeek(t)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}
