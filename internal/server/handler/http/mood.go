package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/saathi/saathi-go/internal/middleware"
	"github.com/saathi/saathi-go/internal/models"
	"github.com/saathi/saathi-go/internal/service"
)

// MoodService defines the mood-log operations required by the MoodHandler.
type MoodService interface {
	Record(ctx context.Context, userID, label string) (models.MoodEntry, error)
	List(ctx context.Context, userID string) ([]models.MoodEntry, error)
}

// MoodHandler handles HTTP requests for the mood log.
type MoodHandler struct {
	MoodService MoodService
}

// RecordMoodRequest represents the JSON payload for a mood check-in.
type RecordMoodRequest struct {
	Mood string `json:"mood"`
}

// Record handles POST /api/moods.
func (h *MoodHandler) Record(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var req RecordMoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	entry, err := h.MoodService.Record(r.Context(), userID, req.Mood)
	if errors.Is(err, service.ErrUnknownMood) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// List handles GET /api/moods, returning the user's check-ins along with
// the fixed catalog the picker offers.
func (h *MoodHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	entries, err := h.MoodService.List(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if entries == nil {
		entries = []models.MoodEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"catalog": models.Moods,
	})
}
