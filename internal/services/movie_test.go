package services_test

import (
	"context"
	"fmt"
	"testing"

	apperrors "github.com/ITKKhan/HorrorWatchBot/internal/errors"
	"github.com/ITKKhan/HorrorWatchBot/internal/logger"
	"github.com/ITKKhan/HorrorWatchBot/internal/models"
	"github.com/ITKKhan/HorrorWatchBot/internal/services"
	"github.com/ITKKhan/HorrorWatchBot/internal/testutil"
	"github.com/ITKKhan/HorrorWatchBot/pkg/omdb"
)

func setupMovieService(t *testing.T) *services.MovieService {
	t.Helper()
	return services.NewMovieService(logger.New(), testutil.NewTestRepository(t))
}

func movie(title, year, addedBy string) models.Movie {
	return models.Movie{Title: title, Year: year, Genre: "Horror", Poster: "N/A", AddedBy: addedBy}
}

func TestMovieFromLookup(t *testing.T) {
	got := services.MovieFromLookup(&omdb.Movie{
		Title:  "Alien",
		Year:   "1979",
		Genre:  "Horror, Sci-Fi",
		Poster: "https://example.com/alien.jpg",
	}, "alice")

	if got.Title != "Alien" || got.Year != "1979" || got.AddedBy != "alice" {
		t.Errorf("unexpected movie: %+v", got)
	}

	// Missing fields get explicit defaults
	defaults := services.MovieFromLookup(&omdb.Movie{}, "bob")
	if defaults.Title != "Untitled" || defaults.Year != "Unknown" || defaults.Genre != "Unknown" || defaults.Poster != "N/A" {
		t.Errorf("expected defaults, got %+v", defaults)
	}
}

func TestListWatchparties(t *testing.T) {
	svc := setupMovieService(t)

	parties, err := svc.ListWatchparties(context.Background())
	if err != nil {
		t.Fatalf("ListWatchparties returned error: %v", err)
	}
	want := []string{"Horror", "Anime", "SciFi"}
	if len(parties) != len(want) {
		t.Fatalf("expected %d watchparties, got %d", len(want), len(parties))
	}
	for i, p := range parties {
		if p != want[i] {
			t.Errorf("watchparty %d: expected %q, got %q", i, want[i], p)
		}
	}
}

func TestAddMovie(t *testing.T) {
	svc := setupMovieService(t)
	ctx := context.Background()

	if err := svc.AddMovie(ctx, "Horror", movie("Alien", "1979", "alice")); err != nil {
		t.Fatalf("AddMovie returned error: %v", err)
	}

	movies, err := svc.TopMovies(ctx, "Horror", 10)
	if err != nil {
		t.Fatalf("TopMovies returned error: %v", err)
	}
	if len(movies) != 1 || movies[0].Title != "Alien" {
		t.Errorf("unexpected library contents: %+v", movies)
	}
}

func TestAddMovieDuplicate(t *testing.T) {
	svc := setupMovieService(t)
	ctx := context.Background()

	if err := svc.AddMovie(ctx, "Horror", movie("Alien", "1979", "alice")); err != nil {
		t.Fatalf("AddMovie returned error: %v", err)
	}

	// Same normalized key, different case and requester
	err := svc.AddMovie(ctx, "Horror", movie("  ALIEN ", "1979", "bob"))
	if !apperrors.IsKind(err, apperrors.ErrConflict) {
		t.Errorf("expected ErrConflict kind, got %v", err)
	}

	// Same title in a different year is a different movie
	if err := svc.AddMovie(ctx, "Horror", movie("Alien", "1986", "bob")); err != nil {
		t.Errorf("different year rejected: %v", err)
	}

	// Same movie in a different category is allowed
	if err := svc.AddMovie(ctx, "SciFi", movie("Alien", "1979", "bob")); err != nil {
		t.Errorf("different category rejected: %v", err)
	}
}

func TestTopMoviesNewestFirst(t *testing.T) {
	svc := setupMovieService(t)
	ctx := context.Background()

	for i := 1; i <= 12; i++ {
		title := fmt.Sprintf("Movie %02d", i)
		if err := svc.AddMovie(ctx, "Horror", movie(title, "2020", "alice")); err != nil {
			t.Fatalf("AddMovie(%s) returned error: %v", title, err)
		}
	}

	movies, err := svc.TopMovies(ctx, "Horror", 10)
	if err != nil {
		t.Fatalf("TopMovies returned error: %v", err)
	}
	if len(movies) != 10 {
		t.Fatalf("expected 10 movies, got %d", len(movies))
	}
	if movies[0].Title != "Movie 12" || movies[9].Title != "Movie 03" {
		t.Errorf("expected newest first (12..03), got %q..%q", movies[0].Title, movies[9].Title)
	}
}

func TestTopMoviesEmptyCategory(t *testing.T) {
	svc := setupMovieService(t)

	_, err := svc.TopMovies(context.Background(), "Horror", 10)
	if !apperrors.IsKind(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound kind, got %v", err)
	}
}

func TestMoviePool(t *testing.T) {
	svc := setupMovieService(t)
	ctx := context.Background()

	if _, err := svc.MoviePool(ctx, "Horror"); !apperrors.IsKind(err, apperrors.ErrNotFound) {
		t.Errorf("missing category: expected ErrNotFound kind, got %v", err)
	}

	for _, title := range []string{"Alien", "The Thing", "Hereditary"} {
		if err := svc.AddMovie(ctx, "Horror", movie(title, "2020", "alice")); err != nil {
			t.Fatalf("AddMovie returned error: %v", err)
		}
	}

	pool, err := svc.MoviePool(ctx, "Horror")
	if err != nil {
		t.Fatalf("MoviePool returned error: %v", err)
	}
	if len(pool) != 3 || pool[0] != "Alien" || pool[2] != "Hereditary" {
		t.Errorf("unexpected pool: %v", pool)
	}
}

func TestRemovalCandidates(t *testing.T) {
	svc := setupMovieService(t)
	ctx := context.Background()

	if err := svc.AddMovie(ctx, "Horror", movie("Alien", "1979", "alice")); err != nil {
		t.Fatalf("AddMovie returned error: %v", err)
	}
	if err := svc.AddMovie(ctx, "Horror", movie("Alien", "1986", "bob")); err != nil {
		t.Fatalf("AddMovie returned error: %v", err)
	}

	alice := models.User{ID: "1", Name: "alice"}
	admin := models.User{ID: "2", Name: "carol", Elevated: true}

	// Non-elevated users only see their own additions
	mine, err := svc.RemovalCandidates(ctx, "Horror", "alien", alice)
	if err != nil {
		t.Fatalf("RemovalCandidates returned error: %v", err)
	}
	if len(mine) != 1 || mine[0].Year != "1979" {
		t.Errorf("expected only alice's 1979 entry, got %+v", mine)
	}

	// Elevated users see everything matching the title
	all, err := svc.RemovalCandidates(ctx, "Horror", "ALIEN", admin)
	if err != nil {
		t.Fatalf("RemovalCandidates returned error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 candidates for elevated user, got %d", len(all))
	}

	// No match is an empty result, not an error
	none, err := svc.RemovalCandidates(ctx, "Horror", "Jaws", alice)
	if err != nil {
		t.Fatalf("RemovalCandidates returned error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no candidates, got %+v", none)
	}
}

func TestRemoveMovie(t *testing.T) {
	svc := setupMovieService(t)
	ctx := context.Background()

	target := movie("Alien", "1979", "alice")
	if err := svc.AddMovie(ctx, "Horror", target); err != nil {
		t.Fatalf("AddMovie returned error: %v", err)
	}

	alice := models.User{ID: "1", Name: "alice"}
	bob := models.User{ID: "2", Name: "bob"}

	// Someone else's movie is protected
	if err := svc.RemoveMovie(ctx, "Horror", target, bob); !apperrors.IsKind(err, apperrors.ErrPermission) {
		t.Errorf("expected ErrPermission kind, got %v", err)
	}

	if err := svc.RemoveMovie(ctx, "Horror", target, alice); err != nil {
		t.Fatalf("RemoveMovie returned error: %v", err)
	}
	if _, err := svc.TopMovies(ctx, "Horror", 10); !apperrors.IsKind(err, apperrors.ErrNotFound) {
		t.Errorf("expected empty category after removal, got %v", err)
	}

	// Removing again reports not found
	if err := svc.RemoveMovie(ctx, "Horror", target, alice); !apperrors.IsKind(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound kind, got %v", err)
	}
}

func TestRemoveMovieElevated(t *testing.T) {
	svc := setupMovieService(t)
	ctx := context.Background()

	target := movie("Alien", "1979", "alice")
	if err := svc.AddMovie(ctx, "Horror", target); err != nil {
		t.Fatalf("AddMovie returned error: %v", err)
	}

	admin := models.User{ID: "9", Name: "carol", Elevated: true}
	if err := svc.RemoveMovie(ctx, "Horror", target, admin); err != nil {
		t.Errorf("elevated removal failed: %v", err)
	}
}
