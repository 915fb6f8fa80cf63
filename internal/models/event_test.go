package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampUnmarshalVariants(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{`"2024-01-15T10:00:00Z"`, time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)},
		{`"2024-01-15T10:00:00"`, time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local)},
		{`"2024-01-15T10:00"`, time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local)},
		{`"2024-01-15 10:00:00"`, time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local)},
		{`"2024-01-15 10:00"`, time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local)},
		{`"2024-01-15"`, time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local)},
	}
	for _, tt := range tests {
		var ts Timestamp
		if err := json.Unmarshal([]byte(tt.in), &ts); err != nil {
			t.Errorf("unmarshal %s: %v", tt.in, err)
			continue
		}
		if !ts.Equal(tt.want) {
			t.Errorf("unmarshal %s = %v, want %v", tt.in, ts.Time, tt.want)
		}
	}
}

func TestTimestampUnmarshalNull(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte("null"), &ts); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !ts.IsZero() {
		t.Errorf("null should yield zero time, got %v", ts.Time)
	}
}

func TestTimestampUnmarshalGarbage(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"next tuesday"`), &ts); err == nil {
		t.Error("expected error for unparseable timestamp")
	}
}

func TestIDAcceptsNumbersAndStrings(t *testing.T) {
	var ev Event
	if err := json.Unmarshal([]byte(`{"id": 42, "title": "a"}`), &ev); err != nil {
		t.Fatalf("unmarshal numeric id: %v", err)
	}
	if ev.ID != "42" {
		t.Errorf("numeric id = %q, want \"42\"", ev.ID)
	}
	if err := json.Unmarshal([]byte(`{"id": "abc-7", "title": "b"}`), &ev); err != nil {
		t.Fatalf("unmarshal string id: %v", err)
	}
	if ev.ID != "abc-7" {
		t.Errorf("string id = %q, want \"abc-7\"", ev.ID)
	}
}

func TestEventTypeNormalization(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"meeting", "meeting"},
		{"deadline", "deadline"},
		{"exam", "exam"},
		{"", "other"},
		{"birthday", "other"},
	}
	for _, tt := range tests {
		ev := Event{EventType: tt.in}
		if got := ev.Type(); got != tt.want {
			t.Errorf("Type(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTaskOverdue(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.Local)

	yesterday := Task{Status: TaskStatusPending, DueDate: Timestamp{Time: time.Date(2024, 1, 14, 23, 0, 0, 0, time.Local)}}
	if !yesterday.IsOverdue(now) {
		t.Error("task due yesterday should be overdue")
	}

	// Due earlier today is not overdue yet, only due today.
	thisMorning := Task{Status: TaskStatusPending, DueDate: Timestamp{Time: time.Date(2024, 1, 15, 9, 0, 0, 0, time.Local)}}
	if thisMorning.IsOverdue(now) {
		t.Error("task due today must not count as overdue")
	}
	if !thisMorning.IsDueToday(now) {
		t.Error("task due this morning should be due today")
	}

	done := Task{Status: TaskStatusCompleted, DueDate: Timestamp{Time: time.Date(2023, 1, 1, 0, 0, 0, 0, time.Local)}}
	if done.IsOverdue(now) {
		t.Error("completed tasks are never overdue")
	}

	undated := Task{Status: TaskStatusPending}
	if undated.IsOverdue(now) || undated.IsDueToday(now) {
		t.Error("tasks without a due date have no due state")
	}
}
