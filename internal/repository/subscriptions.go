package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/saathi/saathi-go/internal/models"
)

// PostgresSubscriptionRepository implements subscription persistence
// against PostgreSQL.
type PostgresSubscriptionRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresSubscriptionRepository creates a repository with the given
// connection.
func NewPostgresSubscriptionRepository(db *sql.DB) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{DB: db}
}

// GetSubscription fetches the user's subscription. A user without a row is
// on the free tier.
func (r *PostgresSubscriptionRepository) GetSubscription(ctx context.Context, userID string) (models.Subscription, error) {
	var sub models.Subscription
	err := r.DB.QueryRowContext(ctx, `
		SELECT status, expiry_date FROM subscriptions WHERE user_id = $1
	`, userID).Scan(&sub.Status, &sub.ExpiryDate)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FreeSubscription(), nil
	}
	if err != nil {
		return models.Subscription{}, fmt.Errorf("GetSubscription: %w", err)
	}
	return sub, nil
}

// SetSubscription inserts or replaces the user's subscription row.
func (r *PostgresSubscriptionRepository) SetSubscription(ctx context.Context, userID string, sub models.Subscription) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO subscriptions (user_id, status, expiry_date)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			status = EXCLUDED.status,
			expiry_date = EXCLUDED.expiry_date
	`, userID, sub.Status, sub.ExpiryDate)
	if err != nil {
		return fmt.Errorf("SetSubscription: %w", err)
	}
	return nil
}
