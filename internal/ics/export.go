// Package ics serializes the cached event list into an iCalendar document
// so users can pull their StudyMate calendar into other calendar apps.
package ics

import (
	"fmt"

	ical "github.com/arran4/golang-ical"

	"github.com/studymate/studymate-bot/internal/models"
)

// Export builds a VCALENDAR containing one VEVENT per backend event.
// Timestamps are emitted in UTC.
func Export(events []models.Event) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//StudyMate//studymate-bot//EN")

	for _, ev := range events {
		e := cal.AddEvent(fmt.Sprintf("%s@studymate", ev.ID))
		e.SetSummary(ev.Title)
		e.SetStartAt(ev.StartTime.UTC())
		e.SetEndAt(ev.EndTime.UTC())
		if ev.Description != "" {
			e.SetDescription(ev.Description)
		}
		if t := ev.Type(); t != models.EventTypeOther {
			e.SetProperty(ical.ComponentPropertyCategories, t)
		}
	}

	return cal.Serialize()
}
