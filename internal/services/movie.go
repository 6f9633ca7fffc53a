package services

import (
	"context"
	"strings"

	apperrors "github.com/ITKKhan/HorrorWatchBot/internal/errors"
	"github.com/ITKKhan/HorrorWatchBot/internal/logger"
	"github.com/ITKKhan/HorrorWatchBot/internal/models"
	"github.com/ITKKhan/HorrorWatchBot/internal/repository"
	"github.com/ITKKhan/HorrorWatchBot/pkg/omdb"
)

// MovieServiceRepository defines the repository methods needed by MovieService
type MovieServiceRepository interface {
	repository.LibraryRepository
	repository.WatchpartyRepository
}

// MovieService handles the movie library: watchparty categories and the
// movies stored under each. Every mutation re-loads the library
// document first; the store gives no atomic partial writes.
type MovieService struct {
	log  logger.Logger
	repo MovieServiceRepository
}

// NewMovieService creates a new MovieService
func NewMovieService(log logger.Logger, repo MovieServiceRepository) *MovieService {
	return &MovieService{log: log, repo: repo}
}

// MovieFromLookup converts an external lookup record into a stored
// movie. Optional fields get explicit defaults here, at the boundary,
// so the library never holds empty metadata.
func MovieFromLookup(record *omdb.Movie, addedBy string) models.Movie {
	movie := models.Movie{
		Title:   record.Title,
		Year:    record.Year,
		Genre:   record.Genre,
		Poster:  record.Poster,
		AddedBy: addedBy,
	}
	if movie.Title == "" {
		movie.Title = "Untitled"
	}
	if movie.Year == "" {
		movie.Year = "Unknown"
	}
	if movie.Genre == "" {
		movie.Genre = "Unknown"
	}
	if movie.Poster == "" {
		movie.Poster = "N/A"
	}
	return movie
}

// movieKey builds the normalized identity used for duplicate detection
func movieKey(title, year string) string {
	return strings.ToLower(strings.TrimSpace(title)) + "\x00" + strings.TrimSpace(year)
}

// ListWatchparties returns the configured watchparty categories
func (s *MovieService) ListWatchparties(ctx context.Context) ([]string, error) {
	parties, err := s.repo.ListWatchparties(ctx)
	if err != nil {
		return nil, apperrors.Persistence("loading watchparties", err)
	}
	return parties, nil
}

// AddMovie inserts a movie into a category. Insertion is idempotent on
// the normalized (title, year) key: a duplicate reports a conflict for
// that one movie instead of failing a whole batch.
func (s *MovieService) AddMovie(ctx context.Context, category string, movie models.Movie) error {
	lib, err := s.repo.LoadLibrary(ctx)
	if err != nil {
		return apperrors.Persistence("loading library", err)
	}

	key := movieKey(movie.Title, movie.Year)
	for _, existing := range lib[category] {
		if movieKey(existing.Title, existing.Year) == key {
			return apperrors.Conflictf("%s (%s) is already in %s", movie.Title, movie.Year, category)
		}
	}

	lib[category] = append(lib[category], movie)
	if err := s.repo.SaveLibrary(ctx, lib); err != nil {
		return apperrors.Persistence("saving library", err)
	}

	s.log.Info("Movie added", "category", category, "title", movie.Title, "year", movie.Year, "added_by", movie.AddedBy)
	return nil
}

// TopMovies returns the n newest movies in a category, newest first
func (s *MovieService) TopMovies(ctx context.Context, category string, n int) ([]models.Movie, error) {
	lib, err := s.repo.LoadLibrary(ctx)
	if err != nil {
		return nil, apperrors.Persistence("loading library", err)
	}

	movies := lib[category]
	if len(movies) == 0 {
		return nil, apperrors.NotFoundf("no movies found in %s", category)
	}

	if len(movies) > n {
		movies = movies[len(movies)-n:]
	}
	newest := make([]models.Movie, 0, len(movies))
	for i := len(movies) - 1; i >= 0; i-- {
		newest = append(newest, movies[i])
	}
	return newest, nil
}

// MoviePool returns every title in a category, for vote session sampling
func (s *MovieService) MoviePool(ctx context.Context, category string) ([]string, error) {
	lib, err := s.repo.LoadLibrary(ctx)
	if err != nil {
		return nil, apperrors.Persistence("loading library", err)
	}

	movies, ok := lib[category]
	if !ok {
		return nil, apperrors.NotFoundf("watchparty %s doesn't exist", category)
	}
	pool := make([]string, len(movies))
	for i, m := range movies {
		pool[i] = m.Title
	}
	return pool, nil
}

// RemovalCandidates returns the movies in a category matching title
// that the requester is allowed to remove: their own additions, or any
// movie when the requester is elevated. Movies failing the permission
// filter are excluded outright, never surfaced as errors.
func (s *MovieService) RemovalCandidates(ctx context.Context, category, title string, requester models.User) ([]models.Movie, error) {
	lib, err := s.repo.LoadLibrary(ctx)
	if err != nil {
		return nil, apperrors.Persistence("loading library", err)
	}

	movies, ok := lib[category]
	if !ok {
		return nil, apperrors.NotFoundf("watchparty %s doesn't exist", category)
	}

	wanted := strings.ToLower(strings.TrimSpace(title))
	var candidates []models.Movie
	for _, m := range movies {
		if strings.ToLower(strings.TrimSpace(m.Title)) != wanted {
			continue
		}
		if m.AddedBy != requester.Name && !requester.Elevated {
			continue
		}
		candidates = append(candidates, m)
	}
	return candidates, nil
}

// RemoveMovie deletes one movie from a category, re-checking the
// permission rule against the freshly loaded document
func (s *MovieService) RemoveMovie(ctx context.Context, category string, movie models.Movie, requester models.User) error {
	lib, err := s.repo.LoadLibrary(ctx)
	if err != nil {
		return apperrors.Persistence("loading library", err)
	}

	key := movieKey(movie.Title, movie.Year)
	for i, existing := range lib[category] {
		if movieKey(existing.Title, existing.Year) != key {
			continue
		}
		if existing.AddedBy != requester.Name && !requester.Elevated {
			return apperrors.Permission("you can only remove movies you added")
		}

		lib[category] = append(lib[category][:i], lib[category][i+1:]...)
		if err := s.repo.SaveLibrary(ctx, lib); err != nil {
			return apperrors.Persistence("saving library", err)
		}
		s.log.Info("Movie removed", "category", category, "title", existing.Title, "year", existing.Year, "removed_by", requester.Name)
		return nil
	}

	return apperrors.NotFoundf("%s (%s) not found in %s", movie.Title, movie.Year, category)
}
