// Package session persists per-chat client state: backend tokens, the
// cached user object and display preferences.
package session

import (
	"context"
	"time"

	"github.com/studymate/studymate-bot/internal/database"
	"github.com/studymate/studymate-bot/internal/models"
)

type Store struct {
	db *database.DB
}

func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

const sessionColumns = `chat_id, access_token, refresh_token, user_json,
	dark_mode, digest_enabled, digest_time, timezone, last_digest_date, updated_at`

// GetOrCreate retrieves the chat's session, creating an empty one if none
// exists.
func (s *Store) GetOrCreate(ctx context.Context, chatID int64) (*models.Session, error) {
	sess := &models.Session{}
	err := s.db.Pool.QueryRow(ctx,
		`INSERT INTO sessions (chat_id) VALUES ($1)
		 ON CONFLICT (chat_id) DO UPDATE SET chat_id = EXCLUDED.chat_id
		 RETURNING `+sessionColumns,
		chatID,
	).Scan(
		&sess.ChatID,
		&sess.AccessToken,
		&sess.RefreshToken,
		&sess.UserJSON,
		&sess.DarkMode,
		&sess.DigestEnabled,
		&sess.DigestTime,
		&sess.Timezone,
		&sess.LastDigestDate,
		&sess.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// SaveTokens stores the credentials returned by login/register along with
// the cached user object.
func (s *Store) SaveTokens(ctx context.Context, chatID int64, access, refresh string, userJSON []byte) error {
	_, err := s.db.Pool.Exec(ctx,
		`UPDATE sessions SET access_token = $1, refresh_token = $2, user_json = $3, updated_at = $4
		 WHERE chat_id = $5`,
		access, refresh, userJSON, time.Now(), chatID,
	)
	return err
}

// ClearTokens wipes the tokens and cached user on logout or a 401.
// Preferences survive.
func (s *Store) ClearTokens(ctx context.Context, chatID int64) error {
	_, err := s.db.Pool.Exec(ctx,
		`UPDATE sessions SET access_token = '', refresh_token = '', user_json = NULL, updated_at = $1
		 WHERE chat_id = $2`,
		time.Now(), chatID,
	)
	return err
}

func (s *Store) SetDarkMode(ctx context.Context, chatID int64, enabled bool) error {
	_, err := s.db.Pool.Exec(ctx,
		`UPDATE sessions SET dark_mode = $1, updated_at = $2 WHERE chat_id = $3`,
		enabled, time.Now(), chatID,
	)
	return err
}

func (s *Store) SetDigestEnabled(ctx context.Context, chatID int64, enabled bool) error {
	_, err := s.db.Pool.Exec(ctx,
		`UPDATE sessions SET digest_enabled = $1, updated_at = $2 WHERE chat_id = $3`,
		enabled, time.Now(), chatID,
	)
	return err
}

func (s *Store) SetDigestTime(ctx context.Context, chatID int64, hhmm string) error {
	_, err := s.db.Pool.Exec(ctx,
		`UPDATE sessions SET digest_time = $1, updated_at = $2 WHERE chat_id = $3`,
		hhmm, time.Now(), chatID,
	)
	return err
}

func (s *Store) SetTimezone(ctx context.Context, chatID int64, tz string) error {
	_, err := s.db.Pool.Exec(ctx,
		`UPDATE sessions SET timezone = $1, updated_at = $2 WHERE chat_id = $3`,
		tz, time.Now(), chatID,
	)
	return err
}

func (s *Store) SetLastDigestDate(ctx context.Context, chatID int64, date time.Time) error {
	_, err := s.db.Pool.Exec(ctx,
		`UPDATE sessions SET last_digest_date = $1 WHERE chat_id = $2`,
		date, chatID,
	)
	return err
}

// ListDigestEnabled returns every session that opted into the morning
// agenda digest.
func (s *Store) ListDigestEnabled(ctx context.Context) ([]*models.Session, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE digest_enabled = TRUE`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		sess := &models.Session{}
		if err := rows.Scan(
			&sess.ChatID,
			&sess.AccessToken,
			&sess.RefreshToken,
			&sess.UserJSON,
			&sess.DarkMode,
			&sess.DigestEnabled,
			&sess.DigestTime,
			&sess.Timezone,
			&sess.LastDigestDate,
			&sess.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}
