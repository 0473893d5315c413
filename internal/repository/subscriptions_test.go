package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/saathi/saathi-go/internal/models"
)

func setupSubMock(t *testing.T) (*PostgresSubscriptionRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresSubscriptionRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

func TestGetSubscription_Premium(t *testing.T) {
	repo, mock, cleanup := setupSubMock(t)
	defer cleanup()

	expiry := time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT status, expiry_date FROM subscriptions WHERE user_id = $1`)).
		WithArgs("u_1").
		WillReturnRows(sqlmock.NewRows([]string{"status", "expiry_date"}).AddRow("premium", expiry))

	sub, err := repo.GetSubscription(context.Background(), "u_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Status != models.StatusPremium {
		t.Errorf("status = %q; want premium", sub.Status)
	}
	if sub.ExpiryDate == nil || !sub.ExpiryDate.Equal(expiry) {
		t.Errorf("expiry = %v; want %v", sub.ExpiryDate, expiry)
	}
}

func TestGetSubscription_DefaultsToFree(t *testing.T) {
	repo, mock, cleanup := setupSubMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT status, expiry_date FROM subscriptions WHERE user_id = $1`)).
		WithArgs("u_new").
		WillReturnError(sql.ErrNoRows)

	sub, err := repo.GetSubscription(context.Background(), "u_new")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Status != models.StatusFree || sub.ExpiryDate != nil {
		t.Errorf("sub = %+v; want free with nil expiry", sub)
	}
}

func TestSetSubscription_Upsert(t *testing.T) {
	repo, mock, cleanup := setupSubMock(t)
	defer cleanup()

	expiry := time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO subscriptions (user_id, status, expiry_date)`)).
		WithArgs("u_1", "premium", expiry).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetSubscription(context.Background(), "u_1", models.Subscription{
		Status:     models.StatusPremium,
		ExpiryDate: &expiry,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
