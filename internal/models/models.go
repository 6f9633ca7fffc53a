package models

import "time"

// Movie is one stored library entry. Optional metadata fields carry
// explicit defaults ("Unknown"/"N/A") assigned at the lookup boundary,
// never empty strings.
type Movie struct {
	Title     string `json:"title"`
	Year      string `json:"year"`
	Genre     string `json:"genre"`
	Poster    string `json:"poster"`
	Streaming string `json:"streaming,omitempty"`
	AddedBy   string `json:"added_by"`
}

// Library maps a watchparty category to its movies, oldest first.
type Library map[string][]Movie

// Candidate is one numbered lookup match shown during a selection flow.
// It exists only for the duration of that flow.
type Candidate struct {
	Index      int    `json:"index"`
	Title      string `json:"title"`
	Year       string `json:"year"`
	Poster     string `json:"poster,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
}

// User identifies an event author. Elevated grants the admin capability
// (removing other users' movies).
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Elevated bool   `json:"elevated,omitempty"`
}

// TextEvent is an inbound chat message from the event source.
type TextEvent struct {
	Author    User      `json:"author"`
	Channel   string    `json:"channel"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ReactionEvent is an inbound reaction toggle on a message.
type ReactionEvent struct {
	User      User      `json:"user"`
	Channel   string    `json:"channel"`
	MessageID string    `json:"message_id"`
	Emoji     string    `json:"emoji"`
	Added     bool      `json:"added"`
	Timestamp time.Time `json:"timestamp"`
}

// RankedEntry is one movie's standing in a tallied vote session.
type RankedEntry struct {
	VoteID  string `json:"vote_id"`
	Title   string `json:"title"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

// ScheduledMovie is the persisted shape of one top-3 pick.
type ScheduledMovie struct {
	Title     string `json:"title"`
	Votes     int    `json:"votes"`
	Percent   int    `json:"percent"`
	Streaming string `json:"streaming"`
}

// ScheduleEntry is the persisted outcome of one category's vote.
type ScheduleEntry struct {
	Day         string           `json:"day"`
	LastUpdated time.Time        `json:"last_updated"`
	Top3        []ScheduledMovie `json:"top_3"`
}

// Schedule maps a category to its most recent schedule entry.
type Schedule map[string]ScheduleEntry

// WSMessage is one outbound presentation frame. MessageID identifies
// frames that accept reactions (vote sessions).
type WSMessage struct {
	Type      string      `json:"type"`
	Channel   string      `json:"channel,omitempty"`
	MessageID string      `json:"message_id,omitempty"`
	Payload   interface{} `json:"payload"`
}
