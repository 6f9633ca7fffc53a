package services_test

import (
	"math/rand"
	"testing"

	"github.com/ITKKhan/HorrorWatchBot/internal/logger"
	"github.com/ITKKhan/HorrorWatchBot/internal/models"
	"github.com/ITKKhan/HorrorWatchBot/internal/services"
)

// rankSession builds a session with the given per-option tallies (index
// 0 is vote id 001) and ranks it with the supplied shuffle.
func rankSession(t *testing.T, counts []int, shuffle func([]models.RankedEntry)) ([]models.RankedEntry, int) {
	t.Helper()

	voting := services.NewVotingServiceWithRand(logger.New(), 5, 5, rand.New(rand.NewSource(1)))
	snap, err := voting.StartSession("Horror", testPool)
	if err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}

	user := 0
	for i, count := range counts {
		voteID := snap.Entries[i].VoteID
		for v := 0; v < count; v++ {
			userID := "voter-" + string(rune('a'+user))
			user++
			if outcome := voting.CastVote(snap.ID, userID, voteID); outcome != services.VoteAccepted {
				t.Fatalf("vote %s by %s: outcome %v", voteID, userID, outcome)
			}
		}
	}

	results := services.NewResultsServiceWithShuffle(logger.New(), voting, shuffle)
	top3, total, err := results.Rank(snap.ID)
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}
	return top3, total
}

func noShuffle(t *testing.T) func([]models.RankedEntry) {
	return func([]models.RankedEntry) {
		t.Error("shuffle invoked without a three-way tie")
	}
}

func TestRankOrdersByCount(t *testing.T) {
	top3, total := rankSession(t, []int{1, 4, 2, 0, 3}, noShuffle(t))

	if total != 10 {
		t.Errorf("expected total 10, got %d", total)
	}
	wantIDs := []string{"002", "005", "003"}
	wantPercents := []int{40, 30, 20}
	for i, e := range top3 {
		if e.VoteID != wantIDs[i] {
			t.Errorf("rank %d: expected %s, got %s", i+1, wantIDs[i], e.VoteID)
		}
		if e.Percent != wantPercents[i] {
			t.Errorf("rank %d: expected %d%%, got %d%%", i+1, wantPercents[i], e.Percent)
		}
	}
}

func TestRankPartialTieKeepsPresentationOrder(t *testing.T) {
	// A clear leader over two tied entries: stable sort keeps the tied
	// pair in presentation order and nothing is shuffled.
	top3, _ := rankSession(t, []int{5, 3, 3, 1, 0}, noShuffle(t))

	wantIDs := []string{"001", "002", "003"}
	for i, e := range top3 {
		if e.VoteID != wantIDs[i] {
			t.Errorf("rank %d: expected %s, got %s", i+1, wantIDs[i], e.VoteID)
		}
	}
}

func TestRankThreeWayTieShuffles(t *testing.T) {
	called := false
	top3, _ := rankSession(t, []int{5, 5, 5, 1, 0}, func(entries []models.RankedEntry) {
		called = true
		entries[0], entries[2] = entries[2], entries[0]
	})

	if !called {
		t.Fatal("expected shuffle for a three-way tie")
	}
	wantIDs := []string{"003", "002", "001"}
	for i, e := range top3 {
		if e.VoteID != wantIDs[i] {
			t.Errorf("rank %d: expected %s, got %s", i+1, wantIDs[i], e.VoteID)
		}
	}
}

func TestRankZeroVotes(t *testing.T) {
	// No votes at all: total floors at 1 and percentages are zero. Every
	// count matches so the tie-break fires.
	called := false
	top3, total := rankSession(t, nil, func([]models.RankedEntry) { called = true })

	if total != 1 {
		t.Errorf("expected floored total 1, got %d", total)
	}
	if !called {
		t.Error("expected shuffle when all counts are equal")
	}
	for _, e := range top3 {
		if e.Count != 0 || e.Percent != 0 {
			t.Errorf("entry %s: expected zero count and percent, got %d/%d%%", e.VoteID, e.Count, e.Percent)
		}
	}
}

func TestRankPercentFloors(t *testing.T) {
	// 7 votes split 3/2/1/1: integer division floors each percentage
	top3, total := rankSession(t, []int{3, 2, 1, 1, 0}, noShuffle(t))

	if total != 7 {
		t.Errorf("expected total 7, got %d", total)
	}
	wantPercents := []int{42, 28, 14}
	for i, e := range top3 {
		if e.Percent != wantPercents[i] {
			t.Errorf("rank %d: expected %d%%, got %d%%", i+1, wantPercents[i], e.Percent)
		}
	}
}

func TestRankNoActiveSession(t *testing.T) {
	voting := services.NewVotingService(logger.New(), 5, 3)
	results := services.NewResultsService(logger.New(), voting)

	if _, _, err := results.Rank(""); err != services.ErrNoActiveSession {
		t.Errorf("expected ErrNoActiveSession, got %v", err)
	}
	if _, _, err := results.Rank("no-such-session"); err != services.ErrUnknownSession {
		t.Errorf("expected ErrUnknownSession, got %v", err)
	}
}

func TestRankCurrentSession(t *testing.T) {
	voting := services.NewVotingServiceWithRand(logger.New(), 5, 3, rand.New(rand.NewSource(1)))
	if _, err := voting.StartSession("Horror", testPool); err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}
	snap, err := voting.StartSession("Anime", testPool)
	if err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}
	voting.CastVote(snap.ID, "alice", "004")

	results := services.NewResultsServiceWithShuffle(logger.New(), voting, func([]models.RankedEntry) {})
	top3, total, err := results.Rank("")
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}
	if total != 1 {
		t.Errorf("expected total 1, got %d", total)
	}
	if top3[0].VoteID != "004" {
		t.Errorf("expected 004 ranked first in the current session, got %s", top3[0].VoteID)
	}
}
