package bot

import (
	"context"

	apperrors "github.com/ITKKhan/HorrorWatchBot/internal/errors"
	"github.com/ITKKhan/HorrorWatchBot/internal/models"
	"github.com/ITKKhan/HorrorWatchBot/internal/selection"
)

// maxCandidates caps how many matches a selection flow presents,
// regardless of how many raw results the lookup returned
const maxCandidates = 5

// runSelectionFlow is one bounded request/response exchange: present
// the numbered candidates, wait for a single reply from the requester
// in the same channel, and parse it into chosen candidates.
//
// Exactly one reply is consulted; the wait registration is released on
// every exit path, so a later reply from the same user is ignored. On
// timeout, cancel, or an unreadable reply the flow reports to the
// channel and returns the error — no side effect has happened yet, and
// there is no retry within one flow.
func (b *Bot) runSelectionFlow(ctx context.Context, requester models.User, channel, prompt string, candidates []models.Candidate) ([]models.Candidate, error) {
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	for i := range candidates {
		candidates[i].Index = i + 1
	}

	b.send(channel, "selection_prompt", map[string]interface{}{
		"prompt":     prompt,
		"candidates": candidates,
	})

	reply, err := b.bus.AwaitText(ctx, func(ev models.TextEvent) bool {
		return ev.Author.ID == requester.ID && ev.Channel == channel
	}, b.replyTimeout)
	if err != nil {
		if apperrors.IsKind(err, apperrors.ErrTimeout) {
			b.notice(channel, "Timed out waiting for your pick. Try the command again.")
		}
		return nil, err
	}

	indices, err := selection.Parse(reply.Content, maxCandidates, len(candidates))
	if err != nil {
		switch {
		case apperrors.IsKind(err, apperrors.ErrCancelled):
			b.notice(channel, "Selection cancelled.")
		case apperrors.IsKind(err, apperrors.ErrParseFailure):
			b.notice(channel, "Couldn't interpret that selection. Try the command again.")
		}
		return nil, err
	}

	chosen := make([]models.Candidate, 0, len(indices))
	for _, idx := range indices {
		chosen = append(chosen, candidates[idx-1])
	}
	return chosen, nil
}
