package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/ITKKhan/HorrorWatchBot/internal/errors"
	"github.com/ITKKhan/HorrorWatchBot/internal/logger"
	"github.com/ITKKhan/HorrorWatchBot/internal/models"
	"github.com/ITKKhan/HorrorWatchBot/internal/repository/mock"
	"github.com/ITKKhan/HorrorWatchBot/internal/services"
	"github.com/ITKKhan/HorrorWatchBot/internal/testutil"
)

var fixedTime = time.Date(2026, time.August, 28, 20, 0, 0, 0, time.UTC)

func setupScheduleService(t *testing.T) (*services.ScheduleService, *mock.Repository) {
	t.Helper()
	repo := mock.NewRepository(testutil.NewTestRepository(t))
	svc := services.NewScheduleServiceWithClock(logger.New(), repo, func() time.Time { return fixedTime })
	return svc, repo
}

func sampleTop3() []models.RankedEntry {
	return []models.RankedEntry{
		{VoteID: "002", Title: "The Thing", Count: 4, Percent: 40},
		{VoteID: "005", Title: "It Follows", Count: 3, Percent: 30},
		{VoteID: "001", Title: "Alien", Count: 2, Percent: 20},
	}
}

func TestDayFor(t *testing.T) {
	svc, _ := setupScheduleService(t)

	tests := []struct {
		category string
		want     string
	}{
		{"Horror", "Friday"},
		{"Anime", "Tuesday"},
		{"SciFi", "Saturday"},
		{"Documentary", "TBD"},
		{"", "TBD"},
	}
	for _, tt := range tests {
		if got := svc.DayFor(tt.category); got != tt.want {
			t.Errorf("DayFor(%q) = %q, want %q", tt.category, got, tt.want)
		}
	}
}

func TestPersist(t *testing.T) {
	svc, _ := setupScheduleService(t)
	ctx := context.Background()

	entry, err := svc.Persist(ctx, "Horror", sampleTop3())
	if err != nil {
		t.Fatalf("Persist returned error: %v", err)
	}
	if entry.Day != "Friday" {
		t.Errorf("expected day Friday, got %q", entry.Day)
	}
	if !entry.LastUpdated.Equal(fixedTime) {
		t.Errorf("expected last updated %s, got %s", fixedTime, entry.LastUpdated)
	}
	if len(entry.Top3) != 3 {
		t.Fatalf("expected 3 scheduled movies, got %d", len(entry.Top3))
	}
	for i, m := range entry.Top3 {
		if m.Streaming != "N/A" {
			t.Errorf("movie %d: expected streaming N/A, got %q", i, m.Streaming)
		}
	}
	if entry.Top3[0].Title != "The Thing" || entry.Top3[0].Votes != 4 {
		t.Errorf("unexpected first pick: %+v", entry.Top3[0])
	}

	// Round-trips through the store
	got, err := svc.Get(ctx, "Horror")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Day != "Friday" || len(got.Top3) != 3 {
		t.Errorf("persisted entry mismatch: %+v", got)
	}
}

func TestPersistOverwritesCategory(t *testing.T) {
	svc, _ := setupScheduleService(t)
	ctx := context.Background()

	if _, err := svc.Persist(ctx, "Horror", sampleTop3()); err != nil {
		t.Fatalf("Persist returned error: %v", err)
	}
	replacement := []models.RankedEntry{{VoteID: "003", Title: "Hereditary", Count: 6, Percent: 100}}
	if _, err := svc.Persist(ctx, "Horror", replacement); err != nil {
		t.Fatalf("Persist returned error: %v", err)
	}

	got, err := svc.Get(ctx, "Horror")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(got.Top3) != 1 || got.Top3[0].Title != "Hereditary" {
		t.Errorf("expected overwrite with single pick, got %+v", got.Top3)
	}
}

func TestPersistPreservesOtherCategories(t *testing.T) {
	svc, _ := setupScheduleService(t)
	ctx := context.Background()

	if _, err := svc.Persist(ctx, "Horror", sampleTop3()); err != nil {
		t.Fatalf("Persist returned error: %v", err)
	}
	animePicks := []models.RankedEntry{{VoteID: "001", Title: "Akira", Count: 5, Percent: 100}}
	if _, err := svc.Persist(ctx, "Anime", animePicks); err != nil {
		t.Fatalf("Persist returned error: %v", err)
	}

	all, err := svc.All(ctx)
	if err != nil {
		t.Fatalf("All returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(all))
	}
	if all["Horror"].Top3[0].Title != "The Thing" {
		t.Errorf("Horror entry clobbered: %+v", all["Horror"])
	}
	if all["Anime"].Day != "Tuesday" {
		t.Errorf("expected Anime on Tuesday, got %q", all["Anime"].Day)
	}
}

func TestGetMissingCategory(t *testing.T) {
	svc, _ := setupScheduleService(t)

	_, err := svc.Get(context.Background(), "Horror")
	if err == nil {
		t.Fatal("expected error for missing category")
	}
	if !apperrors.IsKind(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound kind, got %v", err)
	}
}

func TestPersistStoreFailure(t *testing.T) {
	svc, repo := setupScheduleService(t)
	ctx := context.Background()

	repo.LoadScheduleError = errors.New("disk gone")
	_, err := svc.Persist(ctx, "Horror", sampleTop3())
	if !apperrors.IsKind(err, apperrors.ErrPersistence) {
		t.Errorf("load failure: expected ErrPersistence kind, got %v", err)
	}

	repo.LoadScheduleError = nil
	repo.SaveScheduleError = errors.New("disk gone")
	_, err = svc.Persist(ctx, "Horror", sampleTop3())
	if !apperrors.IsKind(err, apperrors.ErrPersistence) {
		t.Errorf("save failure: expected ErrPersistence kind, got %v", err)
	}

	// Nothing was persisted by the failed cycles
	repo.SaveScheduleError = nil
	if _, err := svc.Get(ctx, "Horror"); !apperrors.IsKind(err, apperrors.ErrNotFound) {
		t.Errorf("expected no entry after failed writes, got %v", err)
	}
}
