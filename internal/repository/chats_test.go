package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/saathi/saathi-go/internal/models"
)

func setupChatMock(t *testing.T) (*PostgresChatRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresChatRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

func TestGetChats(t *testing.T) {
	repo, mock, cleanup := setupChatMock(t)
	defer cleanup()

	created := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "role", "message", "crisis", "created_at"}).
		AddRow(int64(1), "user", "hello", false, created).
		AddRow(int64(2), "assistant", "hi there", false, created)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, role, message, crisis, created_at FROM chats WHERE user_id = $1 ORDER BY id`)).
		WithArgs("u_1").
		WillReturnRows(rows)

	msgs, err := repo.GetChats(context.Background(), "u_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages; want 2", len(msgs))
	}
	if msgs[0].Role != models.RoleUser || msgs[1].Role != models.RoleAssistant {
		t.Errorf("roles = %q, %q", msgs[0].Role, msgs[1].Role)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestGetChats_Empty(t *testing.T) {
	repo, mock, cleanup := setupChatMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, role, message, crisis, created_at FROM chats WHERE user_id = $1 ORDER BY id`)).
		WithArgs("u_1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "role", "message", "crisis", "created_at"}))

	msgs, err := repo.GetChats(context.Background(), "u_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("got %d messages; want 0", len(msgs))
	}
}

func TestAppendChats_PairInSingleTransaction(t *testing.T) {
	repo, mock, cleanup := setupChatMock(t)
	defer cleanup()

	created := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	insert := regexp.QuoteMeta(`INSERT INTO chats (id, user_id, role, message, crisis, created_at)`)

	mock.ExpectBegin()
	mock.ExpectExec(insert).
		WithArgs(int64(10), "u_1", "user", "I want to end my life", false, created).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insert).
		WithArgs(int64(11), "u_1", "assistant", "stay safe", true, created).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.AppendChats(context.Background(), "u_1",
		models.ChatMessage{ID: 10, Role: models.RoleUser, Message: "I want to end my life", CreatedAt: created},
		models.ChatMessage{ID: 11, Role: models.RoleAssistant, Message: "stay safe", Crisis: true, CreatedAt: created},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestAppendChats_RollsBackOnInsertFailure(t *testing.T) {
	repo, mock, cleanup := setupChatMock(t)
	defer cleanup()

	created := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	insert := regexp.QuoteMeta(`INSERT INTO chats (id, user_id, role, message, crisis, created_at)`)

	mock.ExpectBegin()
	mock.ExpectExec(insert).
		WithArgs(int64(10), "u_1", "user", "hello", false, created).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.AppendChats(context.Background(), "u_1",
		models.ChatMessage{ID: 10, Role: models.RoleUser, Message: "hello", CreatedAt: created},
	)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestAppendChats_NoMessagesIsNoOp(t *testing.T) {
	repo, mock, cleanup := setupChatMock(t)
	defer cleanup()

	if err := repo.AppendChats(context.Background(), "u_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database activity: %v", err)
	}
}
