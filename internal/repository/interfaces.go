package repository

import (
	"context"

	"github.com/ITKKhan/HorrorWatchBot/internal/models"
)

// LibraryRepository defines movie library document operations.
// The library is a single document; callers load, mutate, and save the
// whole collection (re-loading before every mutation).
type LibraryRepository interface {
	LoadLibrary(ctx context.Context) (models.Library, error)
	SaveLibrary(ctx context.Context, lib models.Library) error
}

// ScheduleRepository defines schedule document operations
type ScheduleRepository interface {
	LoadSchedule(ctx context.Context) (models.Schedule, error)
	SaveSchedule(ctx context.Context, sched models.Schedule) error
}

// WatchpartyRepository defines watchparty category list operations
type WatchpartyRepository interface {
	ListWatchparties(ctx context.Context) ([]string, error)
	SaveWatchparties(ctx context.Context, parties []string) error
}

// FullRepository combines all repository interfaces.
// Use this when a service needs access to multiple documents.
type FullRepository interface {
	LibraryRepository
	ScheduleRepository
	WatchpartyRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
