package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/saathi/saathi-go/internal/models"
)

// PostgresChatRepository implements conversation-history persistence
// against PostgreSQL.
type PostgresChatRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresChatRepository creates a repository with the given connection.
func NewPostgresChatRepository(db *sql.DB) *PostgresChatRepository {
	return &PostgresChatRepository{DB: db}
}

// GetChats fetches the user's conversation ordered by message id.
func (r *PostgresChatRepository) GetChats(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, role, message, crisis, created_at FROM chats WHERE user_id = $1 ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("GetChats: %w", err)
	}
	defer rows.Close()

	var msgs []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.Role, &m.Message, &m.Crisis, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return msgs, nil
}

// AppendChats inserts the given messages for the user inside a single
// transaction, so a crisis pair lands atomically or not at all.
func (r *PostgresChatRepository) AppendChats(ctx context.Context, userID string, msgs ...models.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, m := range msgs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO chats (id, user_id, role, message, crisis, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, m.ID, userID, m.Role, m.Message, m.Crisis, m.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert chat: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
