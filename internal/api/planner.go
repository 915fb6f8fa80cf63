package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/studymate/studymate-bot/internal/models"
)

func (c *Client) ListPlans(ctx context.Context, token string) ([]models.StudyPlan, error) {
	var plans []models.StudyPlan
	if err := c.do(ctx, http.MethodGet, "/planner/", token, nil, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (c *Client) GetPlan(ctx context.Context, token string, id models.ID) (*models.StudyPlan, error) {
	var plan models.StudyPlan
	path := fmt.Sprintf("/planner/%s", id)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// CreatePlan sends a free-text description; the backend builds the plan,
// its subjects and milestones from it.
func (c *Client) CreatePlan(ctx context.Context, token, description string) error {
	body := map[string]string{"description": description}
	return c.do(ctx, http.MethodPost, "/planner/", token, body, nil)
}

func (c *Client) DeletePlan(ctx context.Context, token string, id models.ID) error {
	path := fmt.Sprintf("/planner/delete/%s", id)
	return c.do(ctx, http.MethodDelete, path, token, nil, nil)
}
