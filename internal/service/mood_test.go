package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/saathi/saathi-go/internal/models"
)

type memMoodRepo struct {
	entries map[string][]models.MoodEntry
	err     error
}

func newMemMoodRepo() *memMoodRepo {
	return &memMoodRepo{entries: make(map[string][]models.MoodEntry)}
}

func (r *memMoodRepo) GetMoods(ctx context.Context, userID string) ([]models.MoodEntry, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.entries[userID], nil
}

func (r *memMoodRepo) AppendMood(ctx context.Context, userID string, entry models.MoodEntry) error {
	if r.err != nil {
		return r.err
	}
	r.entries[userID] = append(r.entries[userID], entry)
	return nil
}

func TestRecordMood(t *testing.T) {
	now := time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC)
	repo := newMemMoodRepo()
	svc := NewMoodService(repo, func() time.Time { return now })

	entry, err := svc.Record(context.Background(), testUser, "Sad")
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if entry.Mood != "Sad" {
		t.Errorf("mood = %q; want %q", entry.Mood, "Sad")
	}
	if !entry.CreatedAt.Equal(now) {
		t.Errorf("created_at = %v; want %v", entry.CreatedAt, now)
	}
	if len(repo.entries[testUser]) != 1 {
		t.Fatal("entry not persisted")
	}
}

func TestRecordMood_UnknownLabel(t *testing.T) {
	svc := NewMoodService(newMemMoodRepo(), nil)

	_, err := svc.Record(context.Background(), testUser, "Ecstatic")
	if !errors.Is(err, ErrUnknownMood) {
		t.Errorf("Record error = %v; want ErrUnknownMood", err)
	}
}

func TestRecordMood_IDsIncrease(t *testing.T) {
	now := time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC)
	svc := NewMoodService(newMemMoodRepo(), func() time.Time { return now })

	first, err := svc.Record(context.Background(), testUser, "Good")
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	second, err := svc.Record(context.Background(), testUser, "Okay")
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if second.ID <= first.ID {
		t.Errorf("ids not increasing with a frozen clock: %d then %d", first.ID, second.ID)
	}
}

func TestListMoods(t *testing.T) {
	repo := newMemMoodRepo()
	repo.entries[testUser] = []models.MoodEntry{
		{ID: 1, Mood: "Good"},
		{ID: 2, Mood: "Crying"},
	}
	svc := NewMoodService(repo, nil)

	entries, err := svc.List(context.Background(), testUser)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("List returned %d entries; want 2", len(entries))
	}
}
