package models

import (
	"fmt"
	"strings"
	"time"
)

// Event type tags used by the backend for color coding. The set is open;
// anything unrecognized renders as EventTypeOther.
const (
	EventTypeMeeting  = "meeting"
	EventTypeDeadline = "deadline"
	EventTypeExam     = "exam"
	EventTypeOther    = "other"
)

// Event is a calendar record owned by the backend. The client only holds a
// cached copy: ids are opaque, start <= end is assumed but never validated
// here.
type Event struct {
	ID          ID        `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartTime   Timestamp `json:"start_time"`
	EndTime     Timestamp `json:"end_time"`
	EventType   string    `json:"event_type"`
}

// Type normalizes the backend's open event_type set for display.
func (e *Event) Type() string {
	switch e.EventType {
	case EventTypeMeeting, EventTypeDeadline, EventTypeExam:
		return e.EventType
	default:
		return EventTypeOther
	}
}

// Timestamp wraps time.Time to accept the backend's timestamp variants:
// RFC 3339 with offset, bare local datetimes with or without seconds, and
// plain dates.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}

// ID is an opaque backend identifier. The backend serializes ids as JSON
// numbers or strings depending on the endpoint, so both are accepted.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		*id = ""
		return nil
	}
	*id = ID(s)
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + string(id) + `"`), nil
}

func (id ID) String() string { return string(id) }
