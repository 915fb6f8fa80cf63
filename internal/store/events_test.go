package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/studymate/studymate-bot/internal/api"
	"github.com/studymate/studymate-bot/internal/calendar"
)

// fakeBackend serves an in-memory event list and counts list fetches.
type fakeBackend struct {
	mu     sync.Mutex
	events []map[string]any
	lists  int
}

func (f *fakeBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/events/":
			f.lists++
			json.NewEncoder(w).Encode(f.events)
		case r.Method == http.MethodPost && r.URL.Path == "/events/create/":
			f.events = append(f.events, map[string]any{
				"id":         "2",
				"title":      "Created",
				"start_time": "2024-01-20T10:00:00Z",
				"end_time":   "2024-01-20T11:00:00Z",
				"event_type": "meeting",
			})
		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/events/delete/"):
			f.events = nil
		default:
			http.NotFound(w, r)
		}
	})
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		events: []map[string]any{{
			"id":         "1",
			"title":      "Math exam",
			"start_time": "2024-01-15T10:00:00Z",
			"end_time":   "2024-01-15T11:00:00Z",
			"event_type": "exam",
		}},
	}
}

func TestEventsLazyLoadAndCache(t *testing.T) {
	backend := newFakeBackend()
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	s := NewEventStore(api.New(srv.URL))
	ctx := context.Background()

	events, err := s.Events(ctx, "tok")
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 1 || events[0].Title != "Math exam" {
		t.Fatalf("got %+v", events)
	}

	// A second read serves from cache.
	if _, err := s.Events(ctx, "tok"); err != nil {
		t.Fatalf("Events: %v", err)
	}
	if backend.lists != 1 {
		t.Errorf("backend listed %d times, want 1", backend.lists)
	}
}

func TestMutationsRefetch(t *testing.T) {
	backend := newFakeBackend()
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	s := NewEventStore(api.New(srv.URL))
	ctx := context.Background()

	if err := s.Create(ctx, "tok", "team sync saturday 10am"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	events, err := s.Events(ctx, "tok")
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected created event in cache, got %d events", len(events))
	}
	if _, ok := s.Get("2"); !ok {
		t.Error("created event not found by id")
	}

	if err := s.Delete(ctx, "tok", "1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	events, _ = s.Events(ctx, "tok")
	if len(events) != 0 {
		t.Errorf("expected empty cache after delete, got %d events", len(events))
	}
}

// The indicator a day cell shows is derived purely from the cached list:
// after a delete and refetch the cell goes empty without any local patching.
func TestDeleteClearsGridIndicator(t *testing.T) {
	backend := newFakeBackend()
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	s := NewEventStore(api.New(srv.URL))
	ctx := context.Background()
	ref := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2020, time.June, 1, 0, 0, 0, 0, time.UTC)
	cellIdx := calendar.FirstWeekdayOffset(ref) + 14 // Jan 15

	events, err := s.Events(ctx, "tok")
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	grid := calendar.BuildGrid(ref, events, now)
	if grid[cellIdx].Count != 1 || grid[cellIdx].Types[0] != "exam" {
		t.Fatalf("expected exam indicator on Jan 15, got %+v", grid[cellIdx])
	}

	if err := s.Delete(ctx, "tok", "1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	events, _ = s.Events(ctx, "tok")
	grid = calendar.BuildGrid(ref, events, now)
	if grid[cellIdx].Count != 0 {
		t.Errorf("indicator survived the delete: %+v", grid[cellIdx])
	}
}

func TestRefreshFailureKeepsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := NewEventStore(api.New(srv.URL))
	if _, err := s.Events(context.Background(), "stale"); err == nil {
		t.Fatal("expected error from unauthorized backend")
	}
}
