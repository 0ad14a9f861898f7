package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

const sessionColumns = `id, sequence, token, user_id, username, base_url, created_at, updated_at, deleted_at`

// SessionRepository implements [models.Repository] for [models.Session] persistence.
type SessionRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.Session] = (*SessionRepository)(nil)

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.Session, error) {
	var (
		s         models.Session
		userID    int64
		deletedAt sql.NullTime
	)
	if err := row.Scan(&s.ID, &s.Sequence, &s.Token, &userID, &s.Username, &s.BaseURL, &s.Created, &s.Updated, &deletedAt); err != nil {
		return nil, err
	}
	s.UserID = models.ID(userID)
	if deletedAt.Valid {
		s.DeletedAt = &deletedAt.Time
	}
	return &s, nil
}

// Create inserts a new session with generated ID and sequence
func (r *SessionRepository) Create(session *models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "sessions")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	now := time.Now()
	session.ID = shared.GenerateID()
	session.Sequence = sequence
	session.Created, session.Updated = now, now

	query := `
		INSERT INTO sessions (id, sequence, token, user_id, username, base_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query, session.ID, session.Sequence, session.Token, int64(session.UserID),
		session.Username, session.BaseURL, session.Created, session.Updated)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID, excluding soft-deleted sessions
func (r *SessionRepository) Get(id string) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ? AND deleted_at IS NULL`

	session, err := scanSession(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: session %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	return session, nil
}

// Current returns the most recent live session for baseURL.
func (r *SessionRepository) Current(baseURL string) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + `
		FROM sessions
		WHERE base_url = ? AND deleted_at IS NULL
		ORDER BY sequence DESC
		LIMIT 1`

	session, err := scanSession(r.db.QueryRow(query, baseURL))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no session for %s", shared.ErrNotAuthenticated, baseURL)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	return session, nil
}

// Update replaces the token and identity of an existing session
func (r *SessionRepository) Update(session *models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	query := `
		UPDATE sessions
		SET token = ?, user_id = ?, username = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`
	result, err := r.db.Exec(query, session.Token, int64(session.UserID), session.Username, now, session.ID)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	if err := expectAffected(result, session.ID); err != nil {
		return err
	}
	session.Updated = now
	return nil
}

// Delete soft-deletes a session by ID
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE sessions SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return expectAffected(result, id)
}

// Invalidate soft-deletes every live session for baseURL.
//
// Returns the number of sessions removed.
func (r *SessionRepository) Invalidate(baseURL string) (int64, error) {
	result, err := r.db.Exec(`UPDATE sessions SET deleted_at = ? WHERE base_url = ? AND deleted_at IS NULL`, time.Now(), baseURL)
	if err != nil {
		return 0, fmt.Errorf("failed to invalidate sessions: %w", err)
	}
	return result.RowsAffected()
}

// List retrieves all live sessions matching the given criteria.
//
// Supported criteria: "base_url" (string), "username" (string).
func (r *SessionRepository) List(criteria map[string]any) ([]*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE deleted_at IS NULL`
	args := []any{}

	if baseURL, ok := criteria["base_url"].(string); ok && baseURL != "" {
		query += " AND base_url = ?"
		args = append(args, baseURL)
	}
	if username, ok := criteria["username"].(string); ok && username != "" {
		query += " AND username = ?"
		args = append(args, username)
	}
	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return sessions, nil
}

func expectAffected(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: session not found or already deleted: %s", shared.ErrNotFound, id)
	}
	return nil
}
