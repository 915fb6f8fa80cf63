package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/studymate/studymate-bot/internal/models"
)

func TestExport(t *testing.T) {
	events := []models.Event{{
		ID:          "7",
		Title:       "Math exam",
		Description: "Room 204",
		StartTime:   models.Timestamp{Time: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)},
		EndTime:     models.Timestamp{Time: time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC)},
		EventType:   "exam",
	}}

	out := Export(events)

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"END:VCALENDAR",
		"METHOD:PUBLISH",
		"UID:7@studymate",
		"SUMMARY:Math exam",
		"DESCRIPTION:Room 204",
		"CATEGORIES:exam",
		"DTSTART:20240115T100000Z",
		"DTEND:20240115T110000Z",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("serialized calendar missing %q\n%s", want, out)
		}
	}
}

func TestExportEmpty(t *testing.T) {
	out := Export(nil)
	if !strings.Contains(out, "BEGIN:VCALENDAR") {
		t.Error("empty export should still be a valid calendar")
	}
	if strings.Contains(out, "BEGIN:VEVENT") {
		t.Error("empty export must not contain events")
	}
}

func TestExportSkipsCategoryForUnknownType(t *testing.T) {
	events := []models.Event{{
		ID:        "1",
		Title:     "Something",
		StartTime: models.Timestamp{Time: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)},
		EndTime:   models.Timestamp{Time: time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC)},
		EventType: "birthday",
	}}
	if out := Export(events); strings.Contains(out, "CATEGORIES") {
		t.Error("unrecognized event types should not emit CATEGORIES")
	}
}
