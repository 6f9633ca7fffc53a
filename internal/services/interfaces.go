package services

import (
	"context"

	"github.com/ITKKhan/HorrorWatchBot/internal/models"
)

// MovieServicer defines the interface for movie library operations
type MovieServicer interface {
	ListWatchparties(ctx context.Context) ([]string, error)
	AddMovie(ctx context.Context, category string, movie models.Movie) error
	TopMovies(ctx context.Context, category string, n int) ([]models.Movie, error)
	MoviePool(ctx context.Context, category string) ([]string, error)
	RemovalCandidates(ctx context.Context, category, title string, requester models.User) ([]models.Movie, error)
	RemoveMovie(ctx context.Context, category string, movie models.Movie, requester models.User) error
}

// VotingServicer defines the interface for vote session operations
type VotingServicer interface {
	StartSession(category string, pool []string) (*SessionSnapshot, error)
	BindMessage(sessionID, messageID string)
	SessionByMessage(messageID string) (string, bool)
	Current() (string, bool)
	CastVote(sessionID, userID, voteID string) VoteOutcome
	Snapshot(sessionID string) (*SessionSnapshot, error)
	ResetAll()
}

// ResultsServicer defines the interface for ranking operations
type ResultsServicer interface {
	Rank(sessionID string) ([]models.RankedEntry, int, error)
}

// ScheduleServicer defines the interface for schedule operations
type ScheduleServicer interface {
	DayFor(category string) string
	Persist(ctx context.Context, category string, top3 []models.RankedEntry) (*models.ScheduleEntry, error)
	Get(ctx context.Context, category string) (*models.ScheduleEntry, error)
	All(ctx context.Context) (models.Schedule, error)
}

// Ensure concrete types implement interfaces
var (
	_ MovieServicer    = (*MovieService)(nil)
	_ VotingServicer   = (*VotingService)(nil)
	_ ResultsServicer  = (*ResultsService)(nil)
	_ ScheduleServicer = (*ScheduleService)(nil)
)
