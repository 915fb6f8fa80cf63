package api

import (
	"context"
	"net/http"

	"github.com/studymate/studymate-bot/internal/models"
)

// Credentials is the token bundle returned by login and register.
type Credentials struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	User    models.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*Credentials, error) {
	body := map[string]string{"email": email, "password": password}
	var creds Credentials
	if err := c.do(ctx, http.MethodPost, "/auth/login/", "", body, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*Credentials, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var creds Credentials
	if err := c.do(ctx, http.MethodPost, "/auth/register/", "", body, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

func (c *Client) Profile(ctx context.Context, token string) (*models.User, error) {
	var resp struct {
		Profile models.User `json:"profile"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/profile/", token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Profile, nil
}
