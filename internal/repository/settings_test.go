package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func setupSettingsMock(t *testing.T) (*PostgresSettingsRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresSettingsRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

func TestSessionPointer_RoundTrip(t *testing.T) {
	repo, mock, cleanup := setupSettingsMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO settings (key, value) VALUES ($1, $2)`)).
		WithArgs("session_user", "u_1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM settings WHERE key = $1`)).
		WithArgs("session_user").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("u_1"))

	if err := repo.SetSession(context.Background(), "u_1"); err != nil {
		t.Fatalf("SetSession: %v", err)
	}
	got, err := repo.GetSession(context.Background())
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got != "u_1" {
		t.Errorf("GetSession = %q; want %q", got, "u_1")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestGetSession_AbsentMeansEmpty(t *testing.T) {
	repo, mock, cleanup := setupSettingsMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM settings WHERE key = $1`)).
		WithArgs("session_user").
		WillReturnError(sql.ErrNoRows)

	got, err := repo.GetSession(context.Background())
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got != "" {
		t.Errorf("GetSession = %q; want empty for absent pointer", got)
	}
}

func TestClearSession(t *testing.T) {
	repo, mock, cleanup := setupSettingsMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM settings WHERE key = $1`)).
		WithArgs("session_user").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.ClearSession(context.Background()); err != nil {
		t.Fatalf("ClearSession: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCredential_RoundTrip(t *testing.T) {
	repo, mock, cleanup := setupSettingsMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO settings (key, value) VALUES ($1, $2)`)).
		WithArgs("groq_api_key", "gsk_abc").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM settings WHERE key = $1`)).
		WithArgs("groq_api_key").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("gsk_abc"))

	if err := repo.SetCredential(context.Background(), "gsk_abc"); err != nil {
		t.Fatalf("SetCredential: %v", err)
	}
	got, err := repo.GetCredential(context.Background())
	if err != nil {
		t.Fatalf("GetCredential: %v", err)
	}
	if got != "gsk_abc" {
		t.Errorf("GetCredential = %q; want %q", got, "gsk_abc")
	}
}
