package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/saathi/saathi-go/internal/middleware"
	"github.com/saathi/saathi-go/internal/models"
	"github.com/saathi/saathi-go/internal/quota"
	"github.com/saathi/saathi-go/internal/service"
)

// ChatService defines the conversation operations required by the ChatHandler.
type ChatService interface {
	// Submit runs one message through the submission state machine and
	// returns its outcome plus any appended messages.
	Submit(ctx context.Context, userID, text string) (service.SubmitResult, error)
	// History returns the conversation (oldest first) and today's
	// user-message count.
	History(ctx context.Context, userID string) ([]models.ChatMessage, int, error)
}

// ChatHandler handles HTTP requests for the conversation.
type ChatHandler struct {
	ChatService ChatService
}

// SubmitRequest represents the JSON payload for a message submission.
type SubmitRequest struct {
	Message string `json:"message"`
}

// HistoryResponse is the transcript plus the data the client needs to
// render the free-tier counter.
type HistoryResponse struct {
	Messages   []models.ChatMessage `json:"messages"`
	TodayCount int                  `json:"today_count"`
	DailyLimit int                  `json:"daily_limit"`
}

// Submit handles POST /api/chat. Every outcome of the state machine is a
// normal 200 response; the outcome field tells the client what happened,
// so it renders blocks and provider failures the same way it renders
// messages.
func (h *ChatHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	result, err := h.ChatService.Submit(r.Context(), userID, req.Message)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// History handles GET /api/chat.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	msgs, today, err := h.ChatService.History(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{
		Messages:   msgs,
		TodayCount: today,
		DailyLimit: quota.FreeDailyLimit,
	})
}
