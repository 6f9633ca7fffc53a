package services

import (
	"math/rand"
	"sort"

	"github.com/ITKKhan/HorrorWatchBot/internal/logger"
	"github.com/ITKKhan/HorrorWatchBot/internal/models"
)

// SessionSource defines the session state the results service reads
type SessionSource interface {
	Snapshot(sessionID string) (*SessionSnapshot, error)
	Current() (string, bool)
}

// ResultsService converts session tallies into a ranked, percentage
// annotated top 3
type ResultsService struct {
	log      logger.Logger
	sessions SessionSource
	shuffle  func([]models.RankedEntry)
}

// NewResultsService creates a new ResultsService
func NewResultsService(log logger.Logger, sessions SessionSource) *ResultsService {
	return NewResultsServiceWithShuffle(log, sessions, func(entries []models.RankedEntry) {
		rand.Shuffle(len(entries), func(i, j int) {
			entries[i], entries[j] = entries[j], entries[i]
		})
	})
}

// NewResultsServiceWithShuffle creates a ResultsService with a
// caller-supplied shuffle, used by tests for deterministic tie-breaks
func NewResultsServiceWithShuffle(log logger.Logger, sessions SessionSource, shuffle func([]models.RankedEntry)) *ResultsService {
	return &ResultsService{log: log, sessions: sessions, shuffle: shuffle}
}

// Rank tallies a session into its top 3. An empty sessionID ranks the
// current (most recently created) session. The returned total is
// floored at 1 so percentages never divide by zero.
//
// Tie-break: only when all three top entries share one count are they
// shuffled. Partial ties (say ranks 2 and 3 tied under a clear leader)
// keep presentation order. Known limitation, kept until product intent
// on partial ties is settled.
func (s *ResultsService) Rank(sessionID string) ([]models.RankedEntry, int, error) {
	if sessionID == "" {
		current, ok := s.sessions.Current()
		if !ok {
			return nil, 0, ErrNoActiveSession
		}
		sessionID = current
	}

	snap, err := s.sessions.Snapshot(sessionID)
	if err != nil {
		return nil, 0, err
	}

	totalVotes := 0
	for _, e := range snap.Entries {
		totalVotes += e.Count
	}
	if totalVotes < 1 {
		totalVotes = 1
	}

	// Entries start in presentation order; a stable sort keeps that
	// order for equal counts.
	ranked := make([]models.RankedEntry, len(snap.Entries))
	for i, e := range snap.Entries {
		ranked[i] = models.RankedEntry{
			VoteID:  e.VoteID,
			Title:   e.Title,
			Count:   e.Count,
			Percent: e.Count * 100 / totalVotes,
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	top3 := ranked
	if len(top3) > 3 {
		top3 = top3[:3]
	}

	if len(top3) == 3 && top3[0].Count == top3[1].Count && top3[1].Count == top3[2].Count {
		s.shuffle(top3)
	}

	return top3, totalVotes, nil
}
