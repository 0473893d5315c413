package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Setting keys for the process-wide singleton values.
const (
	sessionKey    = "session_user"
	credentialKey = "groq_api_key"
)

// PostgresSettingsRepository stores the process-wide singletons (the session
// pointer and the completion credential) as rows of a settings table. It
// implements both service.SessionRepository and service.CredentialRepository.
type PostgresSettingsRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresSettingsRepository creates a repository with the given
// connection.
func NewPostgresSettingsRepository(db *sql.DB) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{DB: db}
}

func (r *PostgresSettingsRepository) get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.DB.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, nil
}

func (r *PostgresSettingsRepository) set(ctx context.Context, key, value string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// GetSession returns the id of the currently authenticated user, or an
// empty string when nobody is signed in.
func (r *PostgresSettingsRepository) GetSession(ctx context.Context) (string, error) {
	return r.get(ctx, sessionKey)
}

// SetSession records the given user id as the active session.
func (r *PostgresSettingsRepository) SetSession(ctx context.Context, userID string) error {
	return r.set(ctx, sessionKey, userID)
}

// ClearSession removes the session pointer.
func (r *PostgresSettingsRepository) ClearSession(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM settings WHERE key = $1`, sessionKey)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// GetCredential returns the stored completion credential, or an empty
// string when none has been captured yet.
func (r *PostgresSettingsRepository) GetCredential(ctx context.Context) (string, error) {
	return r.get(ctx, credentialKey)
}

// SetCredential stores the completion credential.
func (r *PostgresSettingsRepository) SetCredential(ctx context.Context, credential string) error {
	return r.set(ctx, credentialKey, credential)
}
