package models

import (
	"encoding/json"
	"time"
)

// Session is the per-chat client state: backend tokens, the cached user
// object, and display preferences. It is the only durable state this client
// keeps. Hydrated on first touch, written on explicit auth/preference
// actions, and tokens cleared on logout (preferences survive).
type Session struct {
	ChatID         int64
	AccessToken    string
	RefreshToken   string
	UserJSON       []byte
	DarkMode       bool
	DigestEnabled  bool
	DigestTime     string // "HH:MM" in the session's timezone
	Timezone       string
	LastDigestDate *time.Time
	UpdatedAt      time.Time
}

func (s *Session) LoggedIn() bool {
	return s.AccessToken != ""
}

// User decodes the cached user object. Returns nil when the session has no
// cached user or the payload is unreadable.
func (s *Session) User() *User {
	if len(s.UserJSON) == 0 {
		return nil
	}
	var u User
	if err := json.Unmarshal(s.UserJSON, &u); err != nil {
		return nil
	}
	return &u
}

// Location resolves the session timezone, falling back to local time.
func (s *Session) Location() *time.Location {
	if s.Timezone != "" {
		if loc, err := time.LoadLocation(s.Timezone); err == nil {
			return loc
		}
	}
	return time.Local
}
