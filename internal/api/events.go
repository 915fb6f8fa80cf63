package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/studymate/studymate-bot/internal/models"
)

func (c *Client) ListEvents(ctx context.Context, token string) ([]models.Event, error) {
	var events []models.Event
	if err := c.do(ctx, http.MethodGet, "/events/", token, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CreateEvent sends a free-text description; the backend infers the
// structured fields. The created event is picked up by the next full list
// refresh, so nothing is decoded here.
func (c *Client) CreateEvent(ctx context.Context, token, description string) error {
	body := map[string]string{"description": description}
	return c.do(ctx, http.MethodPost, "/events/create/", token, body, nil)
}

// UpdateEvent sends a partial update keyed by event id: only the changed
// fields appear in update.
func (c *Client) UpdateEvent(ctx context.Context, token string, id models.ID, update map[string]any) error {
	body := map[string]any{"update": update}
	path := fmt.Sprintf("/events/update/%s/", id)
	return c.do(ctx, http.MethodPut, path, token, body, nil)
}

func (c *Client) DeleteEvent(ctx context.Context, token string, id models.ID) error {
	path := fmt.Sprintf("/events/delete/%s/", id)
	return c.do(ctx, http.MethodDelete, path, token, nil, nil)
}
