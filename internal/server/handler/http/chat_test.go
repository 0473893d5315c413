package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saathi/saathi-go/internal/models"
	"github.com/saathi/saathi-go/internal/service"
)

// fakeChatService implements ChatService for testing.
type fakeChatService struct {
	submitRes  service.SubmitResult
	submitErr  error
	history    []models.ChatMessage
	todayCount int
	historyErr error

	gotUserID string
	gotText   string
}

func (f *fakeChatService) Submit(ctx context.Context, userID, text string) (service.SubmitResult, error) {
	f.gotUserID = userID
	f.gotText = text
	return f.submitRes, f.submitErr
}

func (f *fakeChatService) History(ctx context.Context, userID string) ([]models.ChatMessage, int, error) {
	f.gotUserID = userID
	return f.history, f.todayCount, f.historyErr
}

func TestChatHandler_Submit(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		service         *fakeChatService
		expectedCode    int
		expectedOutcome service.Outcome
	}{
		{
			name:         "invalid JSON",
			body:         `{`,
			service:      &fakeChatService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:            "noop",
			body:            `{"message":"   "}`,
			service:         &fakeChatService{submitRes: service.SubmitResult{Outcome: service.OutcomeNoOp}},
			expectedCode:    http.StatusOK,
			expectedOutcome: service.OutcomeNoOp,
		},
		{
			name:            "credential required",
			body:            `{"message":"hello"}`,
			service:         &fakeChatService{submitRes: service.SubmitResult{Outcome: service.OutcomeCredentialRequired}},
			expectedCode:    http.StatusOK,
			expectedOutcome: service.OutcomeCredentialRequired,
		},
		{
			name:            "quota exceeded",
			body:            `{"message":"hello"}`,
			service:         &fakeChatService{submitRes: service.SubmitResult{Outcome: service.OutcomeQuotaExceeded}},
			expectedCode:    http.StatusOK,
			expectedOutcome: service.OutcomeQuotaExceeded,
		},
		{
			name: "completed",
			body: `{"message":"hello"}`,
			service: &fakeChatService{submitRes: service.SubmitResult{
				Outcome: service.OutcomeCompleted,
				Messages: []models.ChatMessage{
					{ID: 1, Role: models.RoleUser, Message: "hello"},
					{ID: 2, Role: models.RoleAssistant, Message: "hi there"},
				},
			}},
			expectedCode:    http.StatusOK,
			expectedOutcome: service.OutcomeCompleted,
		},
		{
			name:         "service failure",
			body:         `{"message":"hello"}`,
			service:      &fakeChatService{submitErr: errors.New("db down")},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/chat", bytes.NewBufferString(tt.body))
			h := &ChatHandler{ChatService: tt.service}
			h.Submit(rec, req)

			require.Equal(t, tt.expectedCode, rec.Code)
			if tt.expectedCode != http.StatusOK {
				return
			}

			var res service.SubmitResult
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
			assert.Equal(t, tt.expectedOutcome, res.Outcome)
		})
	}
}

func TestChatHandler_History(t *testing.T) {
	t.Run("returns transcript with counter", func(t *testing.T) {
		svc := &fakeChatService{
			history: []models.ChatMessage{
				{ID: 1, Role: models.RoleUser, Message: "hi"},
				{ID: 2, Role: models.RoleAssistant, Message: "hello"},
			},
			todayCount: 1,
		}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/chat", nil)
		h := &ChatHandler{ChatService: svc}
		h.History(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var res HistoryResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
		assert.Len(t, res.Messages, 2)
		assert.Equal(t, 1, res.TodayCount)
		assert.Equal(t, 20, res.DailyLimit)
	})

	t.Run("empty history is an empty array, not null", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/chat", nil)
		h := &ChatHandler{ChatService: &fakeChatService{}}
		h.History(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"messages":[]`)
	})

	t.Run("service failure", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/chat", nil)
		h := &ChatHandler{ChatService: &fakeChatService{historyErr: errors.New("db down")}}
		h.History(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
