package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AbhiRanjan33/mock-interview-platform/internal/models"
)

type memInterviewStore struct {
	interviews map[string]*models.Interview
}

func newMemInterviewStore(list ...*models.Interview) *memInterviewStore {
	s := &memInterviewStore{interviews: make(map[string]*models.Interview)}
	for _, iv := range list {
		s.interviews[iv.ID] = iv
	}
	return s
}

func (s *memInterviewStore) Create(ctx context.Context, iv *models.Interview) error {
	s.interviews[iv.ID] = iv
	return nil
}

func (s *memInterviewStore) GetByID(ctx context.Context, id string) (*models.Interview, error) {
	return s.interviews[id], nil
}

func (s *memInterviewStore) SetFinalized(ctx context.Context, id string) error {
	iv, ok := s.interviews[id]
	if !ok {
		return errors.New("interview not found")
	}
	iv.Finalized = true
	return nil
}

func (s *memInterviewStore) ListByUser(ctx context.Context, userID string) ([]models.Interview, error) {
	return nil, nil
}

func (s *memInterviewStore) ListLatest(ctx context.Context, excludingUserID string, limit int64) ([]models.Interview, error) {
	return nil, nil
}

func (s *memInterviewStore) DeleteUnfinalizedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for id, iv := range s.interviews {
		if !iv.Finalized && iv.CreatedAt.Before(cutoff) {
			delete(s.interviews, id)
			n++
		}
	}
	return n, nil
}

func TestRunOnceRemovesStaleUnfinalized(t *testing.T) {
	now := time.Now().UTC()
	store := newMemInterviewStore(
		&models.Interview{ID: "stale-retake", Finalized: false, CreatedAt: now.Add(-8 * 24 * time.Hour)},
		&models.Interview{ID: "fresh-retake", Finalized: false, CreatedAt: now.Add(-time.Hour)},
		&models.Interview{ID: "old-finalized", Finalized: true, CreatedAt: now.Add(-30 * 24 * time.Hour)},
	)

	reaper := NewInterviewReaper(store, &ReaperConfig{Enabled: true, MaxAge: 7 * 24 * time.Hour}, nil)
	reaper.RunOnce(context.Background())

	if _, ok := store.interviews["stale-retake"]; ok {
		t.Fatal("stale unfinalized interview should have been removed")
	}
	if _, ok := store.interviews["fresh-retake"]; !ok {
		t.Fatal("fresh unfinalized interview must survive")
	}
	if _, ok := store.interviews["old-finalized"]; !ok {
		t.Fatal("finalized interviews must never be reaped")
	}
}

func TestReaperDefaultsMaxAge(t *testing.T) {
	reaper := NewInterviewReaper(newMemInterviewStore(), &ReaperConfig{Enabled: true}, nil)
	if reaper.config.MaxAge != 7*24*time.Hour {
		t.Fatalf("expected default max age, got %v", reaper.config.MaxAge)
	}
}

func TestReaperDisabledStart(t *testing.T) {
	reaper := NewInterviewReaper(newMemInterviewStore(), &ReaperConfig{Enabled: false}, nil)
	if err := reaper.Start(); err != nil {
		t.Fatalf("disabled reaper must start cleanly: %v", err)
	}
	reaper.Stop()
}

func TestReaperStartWithSchedule(t *testing.T) {
	reaper := NewInterviewReaper(newMemInterviewStore(), &ReaperConfig{Enabled: true, Schedule: "0 3 * * *"}, nil)
	if err := reaper.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	reaper.Stop()
}

func TestReaperStartBadSchedule(t *testing.T) {
	reaper := NewInterviewReaper(newMemInterviewStore(), &ReaperConfig{Enabled: true, Schedule: "not a schedule"}, nil)
	if err := reaper.Start(); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}
