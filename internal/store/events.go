// Package store holds the client-side event cache. Every view derives from
// it; it is refreshed wholesale from the backend after every mutation. There
// is deliberately no optimistic merge or local patch: matching server state
// is prioritized over perceived speed.
package store

import (
	"context"
	"sync"

	"github.com/studymate/studymate-bot/internal/api"
	"github.com/studymate/studymate-bot/internal/models"
)

// EventStore caches one chat session's event list. Handler access is
// serialized per chat, but the digest scheduler reads concurrently, hence
// the mutex.
type EventStore struct {
	client *api.Client

	mu     sync.RWMutex
	events []models.Event
	loaded bool
}

func NewEventStore(client *api.Client) *EventStore {
	return &EventStore{client: client}
}

// Refresh replaces the whole cached list from GET /events/.
func (s *EventStore) Refresh(ctx context.Context, token string) error {
	events, err := s.client.ListEvents(ctx, token)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.events = events
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Events returns a copy of the cached list, fetching it first if the cache
// has never been loaded.
func (s *EventStore) Events(ctx context.Context, token string) ([]models.Event, error) {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()

	if !loaded {
		if err := s.Refresh(ctx, token); err != nil {
			return nil, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Event, len(s.events))
	copy(out, s.events)
	return out, nil
}

// Get looks up a cached event by id.
func (s *EventStore) Get(id models.ID) (models.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ev := range s.events {
		if ev.ID == id {
			return ev, true
		}
	}
	return models.Event{}, false
}

// Create round-trips a free-text description through the backend, then
// refetches the full list. The client never invents an id.
func (s *EventStore) Create(ctx context.Context, token, description string) error {
	if err := s.client.CreateEvent(ctx, token, description); err != nil {
		return err
	}
	return s.Refresh(ctx, token)
}

// Update sends only the changed fields, then refetches the full list.
func (s *EventStore) Update(ctx context.Context, token string, id models.ID, update map[string]any) error {
	if err := s.client.UpdateEvent(ctx, token, id, update); err != nil {
		return err
	}
	return s.Refresh(ctx, token)
}

// Delete removes the event server-side, then refetches the full list.
func (s *EventStore) Delete(ctx context.Context, token string, id models.ID) error {
	if err := s.client.DeleteEvent(ctx, token, id); err != nil {
		return err
	}
	return s.Refresh(ctx, token)
}
