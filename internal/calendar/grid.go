package calendar

import (
	"time"

	"github.com/studymate/studymate-bot/internal/models"
)

// MaxIndicators is how many distinct event-type dots a day cell displays
// before renderers collapse the rest into a "+N" overflow count.
const MaxIndicators = 2

// Cell is one slot of the 7-column month grid. Leading cells before day 1
// are blank placeholders: no day number, nothing to click.
type Cell struct {
	Day     int  // 1-based day of month, 0 for blank cells
	Blank   bool
	IsToday bool
	// Types holds the distinct event types present that day, in first-seen
	// order. Count is the total number of overlapping events.
	Types []string
	Count int
}

// DaysInMonth returns the number of days in t's month. "Day 0 of the next
// month" normalizes to the last day of t's month, which handles 28/29/30/31
// and leap years without tables.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// FirstWeekdayOffset returns the 0-based weekday (Sunday=0) of day 1 of t's
// month, which equals the number of blank leading cells in the grid.
func FirstWeekdayOffset(t time.Time) int {
	return int(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).Weekday())
}

// BuildGrid produces the month grid for ref's month. The result always has
// exactly FirstWeekdayOffset(ref) + DaysInMonth(ref) cells. IsToday is set
// only when ref's month and year match now's.
func BuildGrid(ref time.Time, events []models.Event, now time.Time) []Cell {
	offset := FirstWeekdayOffset(ref)
	days := DaysInMonth(ref)

	cells := make([]Cell, 0, offset+days)
	for i := 0; i < offset; i++ {
		cells = append(cells, Cell{Blank: true})
	}

	sameMonth := ref.Year() == now.Year() && ref.Month() == now.Month()
	for day := 1; day <= days; day++ {
		date := time.Date(ref.Year(), ref.Month(), day, 0, 0, 0, 0, ref.Location())
		cell := Cell{
			Day:     day,
			IsToday: sameMonth && day == now.Day(),
		}
		for _, ev := range events {
			if !Overlaps(date, ev) {
				continue
			}
			cell.Count++
			t := ev.Type()
			seen := false
			for _, have := range cell.Types {
				if have == t {
					seen = true
					break
				}
			}
			if !seen {
				cell.Types = append(cell.Types, t)
			}
		}
		cells = append(cells, cell)
	}
	return cells
}
