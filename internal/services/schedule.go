package services

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/ITKKhan/HorrorWatchBot/internal/errors"
	"github.com/ITKKhan/HorrorWatchBot/internal/logger"
	"github.com/ITKKhan/HorrorWatchBot/internal/models"
	"github.com/ITKKhan/HorrorWatchBot/internal/repository"
)

// defaultCategoryDays maps each watchparty category to its viewing day.
// Unknown categories get "TBD".
var defaultCategoryDays = map[string]string{
	"Horror": "Friday",
	"Anime":  "Tuesday",
	"SciFi":  "Saturday",
}

// ScheduleService persists ranked vote outcomes as the category's
// schedule entry. The schedule document is a whole-document
// read-modify-write, so every write runs under a single writer mutex to
// rule out lost updates from interleaved cycles.
type ScheduleService struct {
	log  logger.Logger
	repo repository.ScheduleRepository
	days map[string]string
	now  func() time.Time

	mu sync.Mutex // single logical writer
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(log logger.Logger, repo repository.ScheduleRepository) *ScheduleService {
	return NewScheduleServiceWithClock(log, repo, time.Now)
}

// NewScheduleServiceWithClock creates a ScheduleService with a
// caller-supplied clock, used by tests
func NewScheduleServiceWithClock(log logger.Logger, repo repository.ScheduleRepository, now func() time.Time) *ScheduleService {
	return &ScheduleService{
		log:  log,
		repo: repo,
		days: defaultCategoryDays,
		now:  now,
	}
}

// DayFor returns the viewing day assigned to a category, "TBD" when the
// category has no mapping
func (s *ScheduleService) DayFor(category string) string {
	if day, ok := s.days[category]; ok {
		return day
	}
	return "TBD"
}

// Persist records top3 as the category's schedule entry, overwriting
// any prior entry for that category and preserving the rest of the
// document. A missing document is an empty one, not an error.
func (s *ScheduleService) Persist(ctx context.Context, category string, top3 []models.RankedEntry) (*models.ScheduleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sched, err := s.repo.LoadSchedule(ctx)
	if err != nil {
		return nil, apperrors.Persistence("loading schedule", err)
	}

	entry := models.ScheduleEntry{
		Day:         s.DayFor(category),
		LastUpdated: s.now().UTC(),
	}
	for _, r := range top3 {
		entry.Top3 = append(entry.Top3, models.ScheduledMovie{
			Title:     r.Title,
			Votes:     r.Count,
			Percent:   r.Percent,
			Streaming: "N/A",
		})
	}

	sched[category] = entry
	if err := s.repo.SaveSchedule(ctx, sched); err != nil {
		return nil, apperrors.Persistence("saving schedule", err)
	}

	s.log.Info("Schedule updated", "category", category, "day", entry.Day, "picks", len(entry.Top3))
	return &entry, nil
}

// Get returns the persisted schedule entry for a category
func (s *ScheduleService) Get(ctx context.Context, category string) (*models.ScheduleEntry, error) {
	sched, err := s.repo.LoadSchedule(ctx)
	if err != nil {
		return nil, apperrors.Persistence("loading schedule", err)
	}
	entry, ok := sched[category]
	if !ok {
		return nil, apperrors.NotFoundf("no schedule found for category %s", category)
	}
	return &entry, nil
}

// All returns the whole persisted schedule
func (s *ScheduleService) All(ctx context.Context) (models.Schedule, error) {
	sched, err := s.repo.LoadSchedule(ctx)
	if err != nil {
		return nil, apperrors.Persistence("loading schedule", err)
	}
	return sched, nil
}
