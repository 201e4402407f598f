package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/VladimirStojanovski/MealStack/internal/models"
)

// SessionRepository implements session.TokenStore on a SQLite database. The
// sessions table holds at most one row, the current session.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository with the given database connection.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Load reads the stored session. Returns (nil, nil) when no session exists.
func (r *SessionRepository) Load() (*models.Session, error) {
	query := `
		SELECT token, user_id, username, email, roles
		FROM sessions
		WHERE id = 1
	`

	var (
		token    string
		userID   string
		username string
		email    string
		roles    string
	)

	err := r.db.QueryRow(query).Scan(&token, &userID, &username, &email, &roles)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	return &models.Session{
		Token: token,
		User: models.User{
			ID:       userID,
			Username: username,
			Email:    email,
			Roles:    splitRoles(roles),
		},
	}, nil
}

// Save replaces the stored session with the given one.
func (r *SessionRepository) Save(session *models.Session) error {
	if !session.Valid() {
		return fmt.Errorf("refusing to store a session without a token")
	}

	query := `
		INSERT INTO sessions (id, token, user_id, username, email, roles, saved_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			user_id = excluded.user_id,
			username = excluded.username,
			email = excluded.email,
			roles = excluded.roles,
			saved_at = excluded.saved_at
	`

	_, err := r.db.Exec(query,
		session.Token,
		session.User.ID,
		session.User.Username,
		session.User.Email,
		joinRoles(session.User.Roles),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Clear removes the stored session. Clearing an empty slot is not an error.
func (r *SessionRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE id = 1"); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
