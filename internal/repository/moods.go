package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/saathi/saathi-go/internal/models"
)

// PostgresMoodRepository implements mood-log persistence against PostgreSQL.
type PostgresMoodRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresMoodRepository creates a repository with the given connection.
func NewPostgresMoodRepository(db *sql.DB) *PostgresMoodRepository {
	return &PostgresMoodRepository{DB: db}
}

// GetMoods fetches the user's mood log ordered by entry id.
func (r *PostgresMoodRepository) GetMoods(ctx context.Context, userID string) ([]models.MoodEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, mood, created_at FROM moods WHERE user_id = $1 ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("GetMoods: %w", err)
	}
	defer rows.Close()

	var entries []models.MoodEntry
	for rows.Next() {
		var e models.MoodEntry
		if err := rows.Scan(&e.ID, &e.Mood, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return entries, nil
}

// AppendMood inserts one mood entry for the user.
func (r *PostgresMoodRepository) AppendMood(ctx context.Context, userID string, entry models.MoodEntry) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO moods (id, user_id, mood, created_at) VALUES ($1, $2, $3, $4)
	`, entry.ID, userID, entry.Mood, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("AppendMood: %w", err)
	}
	return nil
}
