package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/studymate/studymate-bot/internal/models"
)

func (c *Client) ListNotes(ctx context.Context, token string) ([]models.Note, error) {
	var notes []models.Note
	if err := c.do(ctx, http.MethodGet, "/notes/", token, nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *Client) GetNote(ctx context.Context, token string, id models.ID) (*models.Note, error) {
	var note models.Note
	path := fmt.Sprintf("/notes/%s", id)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) SearchNotes(ctx context.Context, token, query string) ([]models.Note, error) {
	body := map[string]string{"query": query}
	var notes []models.Note
	if err := c.do(ctx, http.MethodPost, "/notes/search-notes/", token, body, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *Client) DeleteNote(ctx context.Context, token string, id models.ID) error {
	path := fmt.Sprintf("/notes/delete/%s", id)
	return c.do(ctx, http.MethodDelete, path, token, nil, nil)
}

// CreateNotePDF uploads a PDF document; the backend extracts the note
// content and summary from it.
func (c *Client) CreateNotePDF(ctx context.Context, token, filename, title, subject string, pdf io.Reader) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, pdf); err != nil {
		return fmt.Errorf("build upload: %w", err)
	}
	if title != "" {
		if err := w.WriteField("title", title); err != nil {
			return fmt.Errorf("build upload: %w", err)
		}
	}
	if subject != "" {
		if err := w.WriteField("subject", subject); err != nil {
			return fmt.Errorf("build upload: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/notes/create/pdf/", &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upload pdf: %w", err)
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}
