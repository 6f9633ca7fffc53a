// Package bot is the interactive engine: it routes chat commands,
// drives selection flows, and feeds reaction events into vote sessions.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/ITKKhan/HorrorWatchBot/internal/errors"
	"github.com/ITKKhan/HorrorWatchBot/internal/events"
	"github.com/ITKKhan/HorrorWatchBot/internal/logger"
	"github.com/ITKKhan/HorrorWatchBot/internal/models"
	"github.com/ITKKhan/HorrorWatchBot/internal/services"
	"github.com/ITKKhan/HorrorWatchBot/pkg/omdb"
)

// DefaultReplyTimeout bounds every selection flow's wait for a reply
const DefaultReplyTimeout = 30 * time.Second

// defaultCategory is used when a command omits the watchparty argument
const defaultCategory = "Horror"

// voteEmojis are the reaction affordances, in vote id order
var voteEmojis = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣"}

// Presenter delivers structured frames to a channel. Rendering (embeds,
// emoji glyphs) is the presentation layer's concern, not the engine's.
type Presenter interface {
	// Send presents a frame to a channel and returns the message id
	// assigned to it
	Send(channel string, frame models.WSMessage) (string, error)
	// RevokeReaction asks the presentation layer to withdraw one
	// user's reaction from a message. Best-effort.
	RevokeReaction(channel, messageID, emoji, userID string) error
}

// Bot wires the event bus to the services
type Bot struct {
	log          logger.Logger
	bus          *events.Bus
	presenter    Presenter
	movies       services.MovieServicer
	voting       services.VotingServicer
	results      services.ResultsServicer
	schedule     services.ScheduleServicer
	lookup       omdb.Client
	replyTimeout time.Duration
	emojiVotes   map[string]string
}

// New creates a new Bot
func New(
	log logger.Logger,
	bus *events.Bus,
	presenter Presenter,
	movies services.MovieServicer,
	voting services.VotingServicer,
	results services.ResultsServicer,
	schedule services.ScheduleServicer,
	lookup omdb.Client,
	replyTimeout time.Duration,
) *Bot {
	if replyTimeout <= 0 {
		replyTimeout = DefaultReplyTimeout
	}
	emojiVotes := make(map[string]string, len(voteEmojis))
	for i, emoji := range voteEmojis {
		emojiVotes[emoji] = fmt.Sprintf("%03d", i+1)
	}
	return &Bot{
		log:          log,
		bus:          bus,
		presenter:    presenter,
		movies:       movies,
		voting:       voting,
		results:      results,
		schedule:     schedule,
		lookup:       lookup,
		replyTimeout: replyTimeout,
		emojiVotes:   emojiVotes,
	}
}

// Register attaches the bot to the event bus
func (b *Bot) Register() {
	b.bus.SetTextHandler(b.HandleText)
	b.bus.SetReactionHandler(b.HandleReaction)
}

// HandleText routes one inbound text event. Command handlers run on
// their own goroutine so a flow suspended awaiting a reply never blocks
// delivery of that reply (or of anyone else's events).
func (b *Bot) HandleText(ev models.TextEvent) {
	content := strings.TrimSpace(ev.Content)
	if strings.Contains(content, "@watchbot") {
		go b.handleMention(ev)
		return
	}
	if !strings.HasPrefix(content, "/") {
		return
	}

	fields := strings.Fields(content)
	cmd := fields[0]
	args := fields[1:]

	go func() {
		switch cmd {
		case "/add_movie":
			b.handleAddMovie(ev, args)
		case "/remove_movie":
			b.handleRemoveMovie(ev, args)
		case "/list_top10":
			b.handleListTop(ev, args)
		case "/start_vote_session":
			b.handleStartVoteSession(ev, args)
		case "/show_results":
			b.handleShowResults(ev)
		case "/reset_votes":
			b.handleResetVotes(ev)
		case "/schedule_watchparty":
			b.handleScheduleWatchparty(ev, args)
		default:
			b.notice(ev.Channel, fmt.Sprintf("Unknown command %s. Mention @watchbot for help.", cmd))
		}
	}()
}

// HandleReaction routes one inbound reaction event into the current
// vote sessions. Removals and unrelated emojis are ignored; an over-cap
// vote triggers a best-effort revocation of the reaction.
func (b *Bot) HandleReaction(ev models.ReactionEvent) {
	if !ev.Added {
		return
	}
	voteID, ok := b.emojiVotes[ev.Emoji]
	if !ok {
		return
	}
	sessionID, ok := b.voting.SessionByMessage(ev.MessageID)
	if !ok {
		return
	}

	if b.voting.CastVote(sessionID, ev.User.ID, voteID) == services.VoteCapExceeded {
		if err := b.presenter.RevokeReaction(ev.Channel, ev.MessageID, ev.Emoji, ev.User.ID); err != nil {
			b.log.Warn("Failed to revoke over-cap reaction",
				"user_id", ev.User.ID, "message_id", ev.MessageID, "emoji", ev.Emoji, "error", err)
		}
	}
}

func (b *Bot) handleMention(ev models.TextEvent) {
	b.send(ev.Channel, "help", map[string]interface{}{
		"greeting": fmt.Sprintf("Hey %s! I'm the watchparty companion.", ev.Author.Name),
		"commands": []string{
			"/add_movie <watchparty> <title> — add a movie",
			"/remove_movie <watchparty> <title> — remove a movie you added",
			"/list_top10 <watchparty> — latest additions",
			"/start_vote_session [watchparty] — open a voting round",
			"/show_results — tally and schedule the top 3",
			"/reset_votes — clear all voting data",
			"/schedule_watchparty [watchparty] — announce the lineup",
		},
	})
}

func (b *Bot) handleAddMovie(ev models.TextEvent, args []string) {
	ctx := context.Background()
	category, title, ok := categoryAndTitle(args)
	if !ok {
		b.notice(ev.Channel, "Usage: /add_movie <watchparty> <title>")
		return
	}

	results, err := b.lookup.SearchByTitle(ctx, title)
	if err != nil && !errors.Is(err, omdb.ErrNotFound) {
		b.notice(ev.Channel, "Movie lookup is unavailable right now. Try again later.")
		b.log.Error("Search failed", "title", title, "error", err)
		return
	}

	if len(results) == 0 {
		// Fall back to an exact-title lookup before giving up
		record, err := b.lookup.LookupByTitle(ctx, title)
		if err != nil {
			if errors.Is(err, omdb.ErrNotFound) {
				b.notice(ev.Channel, fmt.Sprintf("Couldn't find anything for '%s'.", title))
			} else {
				b.notice(ev.Channel, "Movie lookup is unavailable right now. Try again later.")
				b.log.Error("Exact lookup failed", "title", title, "error", err)
			}
			return
		}
		b.insertMovies(ctx, ev, category, []*omdb.Movie{record})
		return
	}

	candidates := make([]models.Candidate, 0, maxCandidates)
	for i, r := range results {
		if i == maxCandidates {
			break
		}
		candidates = append(candidates, models.Candidate{
			Index:      i + 1,
			Title:      r.Title,
			Year:       r.Year,
			Poster:     r.Poster,
			ExternalID: r.IMDBID,
		})
	}

	chosen, err := b.runSelectionFlow(ctx, ev.Author, ev.Channel,
		"Found multiple matches! Reply with the numbers of your picks, 'all', or 'cancel'.", candidates)
	if err != nil {
		return // the flow already reported the outcome
	}

	var records []*omdb.Movie
	var failed []string
	for _, c := range chosen {
		record, err := b.lookup.LookupByID(ctx, c.ExternalID)
		if err != nil {
			failed = append(failed, fmt.Sprintf("Couldn't load details for %s (%s).", c.Title, c.Year))
			b.log.Warn("Detail lookup failed", "external_id", c.ExternalID, "error", err)
			continue
		}
		records = append(records, record)
	}
	b.insertMovies(ctx, ev, category, records, failed...)
}

// insertMovies performs the per-item inserts for one resolved add flow
// and emits a single summary covering every processed item
func (b *Bot) insertMovies(ctx context.Context, ev models.TextEvent, category string, records []*omdb.Movie, priorLines ...string) {
	lines := append([]string(nil), priorLines...)
	for _, record := range records {
		movie := services.MovieFromLookup(record, ev.Author.Name)
		err := b.movies.AddMovie(ctx, category, movie)
		switch {
		case err == nil:
			lines = append(lines, fmt.Sprintf("%s (%s) added to %s by %s.", movie.Title, movie.Year, category, movie.AddedBy))
		case apperrors.IsKind(err, apperrors.ErrConflict):
			lines = append(lines, fmt.Sprintf("%s (%s) is already in %s.", movie.Title, movie.Year, category))
		default:
			lines = append(lines, fmt.Sprintf("Couldn't save %s (%s).", movie.Title, movie.Year))
			b.log.Error("Insert failed", "category", category, "title", movie.Title, "error", err)
		}
	}
	b.summary(ev.Channel, lines)
}

func (b *Bot) handleRemoveMovie(ev models.TextEvent, args []string) {
	ctx := context.Background()
	category, title, ok := categoryAndTitle(args)
	if !ok {
		b.notice(ev.Channel, "Usage: /remove_movie <watchparty> <title>")
		return
	}

	matches, err := b.movies.RemovalCandidates(ctx, category, title, ev.Author)
	if err != nil {
		b.reportError(ev.Channel, err)
		return
	}
	if len(matches) == 0 {
		b.notice(ev.Channel, fmt.Sprintf("No removable matches found for '%s' in %s.", title, category))
		return
	}

	candidates := make([]models.Candidate, 0, maxCandidates)
	for i, m := range matches {
		if i == maxCandidates {
			break
		}
		candidates = append(candidates, models.Candidate{Index: i + 1, Title: m.Title, Year: m.Year})
	}

	chosen, err := b.runSelectionFlow(ctx, ev.Author, ev.Channel,
		"Which should go? Reply with the numbers of your picks, 'all', or 'cancel'.", candidates)
	if err != nil {
		return
	}

	var lines []string
	for _, c := range chosen {
		err := b.movies.RemoveMovie(ctx, category, models.Movie{Title: c.Title, Year: c.Year}, ev.Author)
		switch {
		case err == nil:
			lines = append(lines, fmt.Sprintf("Removed %s (%s) from %s.", c.Title, c.Year, category))
		case apperrors.IsKind(err, apperrors.ErrNotFound):
			lines = append(lines, fmt.Sprintf("%s (%s) was already gone.", c.Title, c.Year))
		default:
			lines = append(lines, fmt.Sprintf("Couldn't remove %s (%s).", c.Title, c.Year))
			b.log.Error("Remove failed", "category", category, "title", c.Title, "error", err)
		}
	}
	b.summary(ev.Channel, lines)
}

func (b *Bot) handleListTop(ev models.TextEvent, args []string) {
	category := defaultCategory
	if len(args) > 0 {
		category = args[0]
	}

	movies, err := b.movies.TopMovies(context.Background(), category, 10)
	if err != nil {
		b.reportError(ev.Channel, err)
		return
	}
	b.send(ev.Channel, "top_movies", map[string]interface{}{
		"watchparty": category,
		"movies":     movies,
	})
}

func (b *Bot) handleStartVoteSession(ev models.TextEvent, args []string) {
	category := defaultCategory
	if len(args) > 0 {
		category = args[0]
	}

	pool, err := b.movies.MoviePool(context.Background(), category)
	if err != nil {
		b.reportError(ev.Channel, err)
		return
	}

	snap, err := b.voting.StartSession(category, pool)
	if err != nil {
		b.reportError(ev.Channel, err)
		return
	}

	messageID, err := b.send(ev.Channel, "vote_session", map[string]interface{}{
		"category":     category,
		"session_id":   snap.ID,
		"options":      snap.Options(),
		"emojis":       voteEmojis[:len(snap.Entries)],
		"instructions": "Vote for up to 3 movies using the number reactions!",
	})
	if err != nil {
		b.log.Error("Failed to present vote session", "session_id", snap.ID, "error", err)
		return
	}
	b.voting.BindMessage(snap.ID, messageID)
}

func (b *Bot) handleShowResults(ev models.TextEvent) {
	current, ok := b.voting.Current()
	if !ok {
		b.notice(ev.Channel, "No active voting session found.")
		return
	}

	top3, totalVotes, err := b.results.Rank(current)
	if err != nil {
		b.reportError(ev.Channel, err)
		return
	}

	snap, err := b.voting.Snapshot(current)
	if err != nil {
		b.reportError(ev.Channel, err)
		return
	}

	b.send(ev.Channel, "vote_results", map[string]interface{}{
		"category":    snap.Category,
		"total_votes": totalVotes,
		"top_3":       top3,
	})

	if _, err := b.schedule.Persist(context.Background(), snap.Category, top3); err != nil {
		b.notice(ev.Channel, "Results shown, but the schedule could not be saved.")
		b.log.Error("Schedule persist failed", "category", snap.Category, "error", err)
	}
}

func (b *Bot) handleResetVotes(ev models.TextEvent) {
	b.voting.ResetAll()
	b.notice(ev.Channel, "Voting data cleared. Ready for a new session!")
}

func (b *Bot) handleScheduleWatchparty(ev models.TextEvent, args []string) {
	category := defaultCategory
	if len(args) > 0 {
		category = capitalize(args[0])
	}

	entry, err := b.schedule.Get(context.Background(), category)
	if err != nil {
		if apperrors.IsKind(err, apperrors.ErrNotFound) {
			b.notice(ev.Channel, fmt.Sprintf("No schedule found for %s. Try /show_results first.", category))
		} else {
			b.reportError(ev.Channel, err)
		}
		return
	}
	b.send(ev.Channel, "schedule", map[string]interface{}{
		"category": category,
		"entry":    entry,
	})
}

// notice emits a plain text frame to a channel
func (b *Bot) notice(channel, text string) {
	b.send(channel, "notice", map[string]string{"text": text})
}

// summary emits one frame covering every item processed in a batch
func (b *Bot) summary(channel string, lines []string) {
	b.send(channel, "summary", map[string]interface{}{"lines": lines})
}

// reportError turns a service error into a user-visible notice. The
// engine returns to its prior state; nothing here escalates.
func (b *Bot) reportError(channel string, err error) {
	switch {
	case errors.Is(err, services.ErrInsufficientPool):
		b.notice(channel, "Not enough movies in that watchparty to start a vote session.")
	case errors.Is(err, services.ErrNoActiveSession), errors.Is(err, services.ErrUnknownSession):
		b.notice(channel, "No active voting session found.")
	case apperrors.IsKind(err, apperrors.ErrNotFound):
		b.notice(channel, err.Error())
	case apperrors.IsKind(err, apperrors.ErrPersistence):
		b.notice(channel, "Storage is unavailable right now. Try again later.")
	default:
		b.notice(channel, "Something went wrong. Try again.")
		b.log.Error("Command failed", "error", err)
	}
}

func (b *Bot) send(channel, frameType string, payload interface{}) (string, error) {
	messageID, err := b.presenter.Send(channel, models.WSMessage{Type: frameType, Payload: payload})
	if err != nil {
		b.log.Warn("Failed to present frame", "type", frameType, "channel", channel, "error", err)
	}
	return messageID, err
}

// categoryAndTitle splits command args into the watchparty name and the
// (possibly multi-word) movie title
func categoryAndTitle(args []string) (string, string, bool) {
	if len(args) < 2 {
		return "", "", false
	}
	return args[0], strings.Join(args[1:], " "), true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
