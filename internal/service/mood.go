package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/saathi/saathi-go/internal/models"
)

// ErrUnknownMood is returned when recording a label outside the catalog.
var ErrUnknownMood = errors.New("unknown mood label")

// MoodRepository defines the persistence operations for the mood log.
type MoodRepository interface {
	GetMoods(ctx context.Context, userID string) ([]models.MoodEntry, error)
	AppendMood(ctx context.Context, userID string, entry models.MoodEntry) error
}

// MoodService appends and lists mood check-ins.
type MoodService struct {
	moods MoodRepository
	now   func() time.Time
	ids   idSource
}

// NewMoodService constructs a MoodService. A nil clock falls back to
// time.Now.
func NewMoodService(moods MoodRepository, clock func() time.Time) *MoodService {
	if clock == nil {
		clock = time.Now
	}
	return &MoodService{moods: moods, now: clock, ids: idSource{now: clock}}
}

// Record appends one mood entry for the user. The label must name an entry
// of the fixed catalog.
func (s *MoodService) Record(ctx context.Context, userID, label string) (models.MoodEntry, error) {
	if !models.ValidMood(label) {
		return models.MoodEntry{}, ErrUnknownMood
	}
	entry := models.MoodEntry{
		ID:        s.ids.next(1)[0],
		Mood:      label,
		CreatedAt: s.now(),
	}
	if err := s.moods.AppendMood(ctx, userID, entry); err != nil {
		return models.MoodEntry{}, fmt.Errorf("append mood: %w", err)
	}
	return entry, nil
}

// List returns the user's mood log, oldest first.
func (s *MoodService) List(ctx context.Context, userID string) ([]models.MoodEntry, error) {
	return s.moods.GetMoods(ctx, userID)
}
