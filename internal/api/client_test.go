package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/studymate/studymate-bot/internal/models"
)

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["email"] != "ada@example.com" || body["password"] != "secret" {
			t.Errorf("wrong credentials in body: %v", body)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access":  "tok-a",
			"refresh": "tok-r",
			"user":    map[string]string{"name": "Ada", "email": "ada@example.com"},
		})
	}))
	defer srv.Close()

	creds, err := New(srv.URL).Login(context.Background(), "ada@example.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if creds.Access != "tok-a" || creds.Refresh != "tok-r" {
		t.Errorf("wrong tokens: %+v", creds)
	}
	if creds.User.Name != "Ada" {
		t.Errorf("wrong user: %+v", creds.User)
	}
}

func TestBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-a" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	if _, err := New(srv.URL).ListEvents(context.Background(), "tok-a"); err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
}

func TestCreateEventBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/events/create/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["description"] != "math exam tuesday 9am" {
			t.Errorf("body = %v", body)
		}
	}))
	defer srv.Close()

	err := New(srv.URL).CreateEvent(context.Background(), "tok", "math exam tuesday 9am")
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
}

func TestUpdateEventWrapsChanges(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/events/update/7/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Update map[string]any `json:"update"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Update["title"] != "Final exam" {
			t.Errorf("update = %v", body.Update)
		}
		if _, ok := body.Update["start_time"]; ok {
			t.Error("unchanged field leaked into update payload")
		}
	}))
	defer srv.Close()

	err := New(srv.URL).UpdateEvent(context.Background(), "tok", "7", map[string]any{"title": "Final exam"})
	if err != nil {
		t.Fatalf("UpdateEvent: %v", err)
	}
}

func TestUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListTasks(context.Background(), "stale")
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetNote(context.Background(), "tok", "99")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListEvents(context.Background(), "tok")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if apiErr.Status != 500 || apiErr.Body != "boom" {
		t.Errorf("got %+v", apiErr)
	}
}

func TestDeleteTasksBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tasks/delete/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			IDs []string `json:"ids"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if len(body.IDs) != 2 || body.IDs[0] != "3" || body.IDs[1] != "5" {
			t.Errorf("ids = %v", body.IDs)
		}
	}))
	defer srv.Close()

	err := New(srv.URL).DeleteTasks(context.Background(), "tok", []models.ID{"3", "5"})
	if err != nil {
		t.Fatalf("DeleteTasks: %v", err)
	}
}
