package services

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ITKKhan/HorrorWatchBot/internal/logger"
)

// VoteOutcome classifies what a cast vote did
type VoteOutcome int

const (
	// VoteAccepted means the vote was recorded and tallied
	VoteAccepted VoteOutcome = iota
	// VoteIgnored means the vote was a no-op: unknown session or vote
	// id, or a duplicate from the same user
	VoteIgnored
	// VoteCapExceeded means the user already holds the maximum number
	// of votes; the caller should try to revoke the triggering reaction
	VoteCapExceeded
)

// VoteOption is one votable entry in presentation order
type VoteOption struct {
	VoteID string `json:"vote_id"`
	Title  string `json:"title"`
}

// SessionEntry is one entry's standing within a session snapshot
type SessionEntry struct {
	VoteID string `json:"vote_id"`
	Title  string `json:"title"`
	Count  int    `json:"count"`
}

// SessionSnapshot is a read-only copy of one session's state
type SessionSnapshot struct {
	ID        string         `json:"id"`
	Category  string         `json:"category"`
	MessageID string         `json:"message_id,omitempty"`
	Entries   []SessionEntry `json:"entries"`
}

// Options returns the snapshot's entries as presentable vote options
func (s *SessionSnapshot) Options() []VoteOption {
	opts := make([]VoteOption, len(s.Entries))
	for i, e := range s.Entries {
		opts[i] = VoteOption{VoteID: e.VoteID, Title: e.Title}
	}
	return opts
}

// voteSession is the mutable state of one voting round. All access goes
// through the VotingService mutex.
type voteSession struct {
	id        string
	category  string
	messageID string
	voteIDs   []string          // presentation order
	titles    map[string]string // vote id -> title
	tally     map[string]int
	userVotes map[string][]string // user id -> vote ids, append-only
	createdAt time.Time
}

// VotingService owns every vote session, user record, and tally for the
// process lifetime. All mutation is serialized under one mutex; votes
// apply in arrival order, which the duplicate and cap checks depend on.
type VotingService struct {
	log         logger.Logger
	sessionSize int
	voteCap     int

	mu        sync.Mutex
	rng       *rand.Rand
	sessions  map[string]*voteSession
	order     []string          // creation order; last is current
	byMessage map[string]string // message id -> session id
}

// NewVotingService creates a new VotingService. sessionSize is how many
// movies each session samples; voteCap is the per-user vote limit.
func NewVotingService(log logger.Logger, sessionSize, voteCap int) *VotingService {
	return NewVotingServiceWithRand(log, sessionSize, voteCap,
		rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewVotingServiceWithRand creates a VotingService with a caller-owned
// random source, used by tests for deterministic sampling.
func NewVotingServiceWithRand(log logger.Logger, sessionSize, voteCap int, rng *rand.Rand) *VotingService {
	return &VotingService{
		log:         log,
		sessionSize: sessionSize,
		voteCap:     voteCap,
		rng:         rng,
		sessions:    make(map[string]*voteSession),
		byMessage:   make(map[string]string),
	}
}

// StartSession samples sessionSize distinct entries from pool, assigns
// zero-padded 3-digit vote ids in presentation order, and registers the
// session under a fresh handle. The newest session becomes current.
func (s *VotingService) StartSession(category string, pool []string) (*SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(pool) < s.sessionSize {
		return nil, ErrInsufficientPool
	}

	session := &voteSession{
		id:        uuid.NewString(),
		category:  category,
		titles:    make(map[string]string),
		tally:     make(map[string]int),
		userVotes: make(map[string][]string),
		createdAt: time.Now(),
	}

	for i, poolIdx := range s.rng.Perm(len(pool))[:s.sessionSize] {
		voteID := fmt.Sprintf("%03d", i+1)
		session.voteIDs = append(session.voteIDs, voteID)
		session.titles[voteID] = pool[poolIdx]
		session.tally[voteID] = 0
	}

	s.sessions[session.id] = session
	s.order = append(s.order, session.id)

	s.log.Info("Vote session started", "session_id", session.id, "category", category, "options", len(session.voteIDs))
	return snapshotLocked(session), nil
}

// BindMessage associates a presented message with a session so that
// reaction events can be routed back to it
func (s *VotingService) BindMessage(sessionID, messageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	session.messageID = messageID
	s.byMessage[messageID] = sessionID
}

// SessionByMessage resolves the session presented as messageID
func (s *VotingService) SessionByMessage(messageID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byMessage[messageID]
	return id, ok
}

// Current returns the most recently created session's id
func (s *VotingService) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.order) == 0 {
		return "", false
	}
	return s.order[len(s.order)-1], true
}

// CastVote records one user's vote. Unknown sessions and vote ids and
// duplicate (user, vote id) pairs are absorbed as no-ops: at-least-once
// delivery makes them normal traffic, not failures. The cap check runs
// before any tally mutation.
func (s *VotingService) CastVote(sessionID, userID, voteID string) VoteOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return VoteIgnored
	}
	if _, ok := session.titles[voteID]; !ok {
		return VoteIgnored
	}

	for _, held := range session.userVotes[userID] {
		if held == voteID {
			return VoteIgnored
		}
	}

	if len(session.userVotes[userID]) >= s.voteCap {
		return VoteCapExceeded
	}

	session.userVotes[userID] = append(session.userVotes[userID], voteID)
	session.tally[voteID]++

	s.log.Debug("Vote recorded", "session_id", sessionID, "user_id", userID, "vote_id", voteID)
	return VoteAccepted
}

// Snapshot returns a read-only copy of one session
func (s *VotingService) Snapshot(sessionID string) (*SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrUnknownSession
	}
	return snapshotLocked(session), nil
}

// UserVotes returns a copy of one user's vote ids within a session
func (s *VotingService) UserVotes(sessionID, userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	return append([]string(nil), session.userVotes[userID]...)
}

// ResetAll clears every session, user record, and tally. Irreversible;
// used to start a clean voting round.
func (s *VotingService) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make(map[string]*voteSession)
	s.byMessage = make(map[string]string)
	s.order = nil

	s.log.Info("Voting data cleared")
}

// snapshotLocked copies session state; callers hold the service mutex
func snapshotLocked(session *voteSession) *SessionSnapshot {
	snap := &SessionSnapshot{
		ID:        session.id,
		Category:  session.category,
		MessageID: session.messageID,
	}
	for _, voteID := range session.voteIDs {
		snap.Entries = append(snap.Entries, SessionEntry{
			VoteID: voteID,
			Title:  session.titles[voteID],
			Count:  session.tally[voteID],
		})
	}
	return snap
}
