package mock

import (
	"context"

	"github.com/ITKKhan/HorrorWatchBot/internal/models"
	"github.com/ITKKhan/HorrorWatchBot/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without manipulating the
// underlying database.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.SaveScheduleError = errors.New("disk full")
//	svc := services.NewScheduleService(log, mockRepo)
//	_, err := svc.Persist(ctx, "Horror", top3)
//	// err will now carry the injected error
type Repository struct {
	repository.FullRepository

	LoadLibraryError      error
	SaveLibraryError      error
	LoadScheduleError     error
	SaveScheduleError     error
	ListWatchpartiesError error
	SaveWatchpartiesError error
}

// NewRepository creates an error-injecting wrapper around a real repository
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{FullRepository: real}
}

func (r *Repository) LoadLibrary(ctx context.Context) (models.Library, error) {
	if r.LoadLibraryError != nil {
		return nil, r.LoadLibraryError
	}
	return r.FullRepository.LoadLibrary(ctx)
}

func (r *Repository) SaveLibrary(ctx context.Context, lib models.Library) error {
	if r.SaveLibraryError != nil {
		return r.SaveLibraryError
	}
	return r.FullRepository.SaveLibrary(ctx, lib)
}

func (r *Repository) LoadSchedule(ctx context.Context) (models.Schedule, error) {
	if r.LoadScheduleError != nil {
		return nil, r.LoadScheduleError
	}
	return r.FullRepository.LoadSchedule(ctx)
}

func (r *Repository) SaveSchedule(ctx context.Context, sched models.Schedule) error {
	if r.SaveScheduleError != nil {
		return r.SaveScheduleError
	}
	return r.FullRepository.SaveSchedule(ctx, sched)
}

func (r *Repository) ListWatchparties(ctx context.Context) ([]string, error) {
	if r.ListWatchpartiesError != nil {
		return nil, r.ListWatchpartiesError
	}
	return r.FullRepository.ListWatchparties(ctx)
}

func (r *Repository) SaveWatchparties(ctx context.Context, parties []string) error {
	if r.SaveWatchpartiesError != nil {
		return r.SaveWatchpartiesError
	}
	return r.FullRepository.SaveWatchparties(ctx, parties)
}
