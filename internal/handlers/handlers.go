package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ITKKhan/HorrorWatchBot/internal/services"
)

// WSGateway is the websocket entry point the router mounts
type WSGateway interface {
	ServeWs(w http.ResponseWriter, r *http.Request)
}

// TrafficLogger controls whether per-request logging is on
type TrafficLogger interface {
	IsTrafficLoggingEnabled() bool
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Movies   services.MovieServicer
	Voting   services.VotingServicer
	Results  services.ResultsServicer
	Schedule services.ScheduleServicer
	Gateway  WSGateway
	Log      TrafficLogger
	joinURL  string
}

// New creates a new Handlers instance. joinURL is the address encoded
// into the join QR code.
func New(
	movies services.MovieServicer,
	voting services.VotingServicer,
	results services.ResultsServicer,
	schedule services.ScheduleServicer,
	gw WSGateway,
	log TrafficLogger,
	joinURL string,
) *Handlers {
	return &Handlers{
		Movies:   movies,
		Voting:   voting,
		Results:  results,
		Schedule: schedule,
		Gateway:  gw,
		Log:      log,
		joinURL:  joinURL,
	}
}

// handleIndex describes the service
func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	respondOK(w, map[string]string{
		"service": "watchbot",
		"join":    h.joinURL,
	})
}

// handleHealthz reports liveness
func (h *Handlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondOK(w, map[string]string{"status": "ok"})
}

// handleGetWatchparties returns the configured categories
func (h *Handlers) handleGetWatchparties(w http.ResponseWriter, r *http.Request) {
	parties, err := h.Movies.ListWatchparties(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, map[string]interface{}{"watchparties": parties})
}

// handleGetLibrary returns the newest movies in one category
func (h *Handlers) handleGetLibrary(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	movies, err := h.Movies.TopMovies(r.Context(), category, 10)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, map[string]interface{}{"watchparty": category, "movies": movies})
}

// handleGetSchedule returns the whole persisted schedule
func (h *Handlers) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	sched, err := h.Schedule.All(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, sched)
}

// handleGetCategorySchedule returns one category's schedule entry
func (h *Handlers) handleGetCategorySchedule(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	entry, err := h.Schedule.Get(r.Context(), category)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, map[string]interface{}{"category": category, "entry": entry})
}

// handleGetResults ranks the current vote session
func (h *Handlers) handleGetResults(w http.ResponseWriter, r *http.Request) {
	top3, totalVotes, err := h.Results.Rank("")
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, map[string]interface{}{"total_votes": totalVotes, "top_3": top3})
}

// handleGetSession returns the current vote session's live tallies
func (h *Handlers) handleGetSession(w http.ResponseWriter, r *http.Request) {
	current, ok := h.Voting.Current()
	if !ok {
		respondError(w, NotFound("no active voting session"))
		return
	}
	snap, err := h.Voting.Snapshot(current)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, snap)
}
