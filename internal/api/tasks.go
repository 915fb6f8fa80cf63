package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/studymate/studymate-bot/internal/models"
)

func (c *Client) ListTasks(ctx context.Context, token string) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/", token, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, token string, id models.ID) (*models.Task, error) {
	var task models.Task
	path := fmt.Sprintf("/tasks/%s/", id)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) CreateTask(ctx context.Context, token, description string) error {
	body := map[string]string{"description": description}
	return c.do(ctx, http.MethodPost, "/tasks/create/", token, body, nil)
}

func (c *Client) UpdateTask(ctx context.Context, token string, id models.ID, update map[string]any) error {
	body := map[string]any{"id": id, "update": update}
	return c.do(ctx, http.MethodPut, "/tasks/update/", token, body, nil)
}

func (c *Client) DeleteTasks(ctx context.Context, token string, ids []models.ID) error {
	body := map[string]any{"ids": ids}
	return c.do(ctx, http.MethodPost, "/tasks/delete/", token, body, nil)
}

func (c *Client) Dashboard(ctx context.Context, token string) (*models.Dashboard, error) {
	var dash models.Dashboard
	if err := c.do(ctx, http.MethodGet, "/tasks/dashboard/", token, nil, &dash); err != nil {
		return nil, err
	}
	return &dash, nil
}
