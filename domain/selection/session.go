package selection

import (
	"time"

	"cutoffrank/domain/core"
	"cutoffrank/domain/cutoff"
)

// State of a selection session
type State string

const (
	StateIdle      State = "idle"
	StateSelecting State = "selecting"
)

// Picks are the three user choices an Add needs
type Picks struct {
	Category string `json:"category"`
	College  string `json:"college"`
	Branch   string `json:"branch"`
}

// Complete reports whether every pick was made
func (p Picks) Complete() bool {
	return p.Category != "" && p.College != "" && p.Branch != ""
}

// Session accumulates selections between a Start and the next End. A
// Session is not safe for concurrent use; callers serialise access.
type Session struct {
	ID        core.SessionID
	state     State
	entries   []Entry
	startedAt time.Time
}

// NewSession creates an idle session with an empty list
func NewSession(id core.SessionID) *Session {
	return &Session{ID: id, state: StateIdle}
}

// State returns the current state
func (s *Session) State() State {
	return s.state
}

// StartedAt is when the session last entered Selecting
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Len returns the number of accumulated entries
func (s *Session) Len() int {
	return len(s.entries)
}

// Entries returns the live list in insertion order, as a copy
func (s *Session) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Start moves Idle to Selecting. Starting a Selecting session keeps its list.
func (s *Session) Start(now time.Time) {
	if s.state == StateSelecting {
		return
	}
	s.state = StateSelecting
	s.startedAt = now
}

// Add looks up the cutoff for picks and appends one entry. On any error the
// list is left untouched.
func (s *Session) Add(ds *cutoff.Dataset, picks Picks) (Entry, error) {
	if s.state != StateSelecting {
		return Entry{}, core.ErrNotSelecting
	}
	if !picks.Complete() {
		return Entry{}, core.ErrIncompletePicks
	}

	rank, err := ds.Cutoff(picks.Category, picks.College, picks.Branch)
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{College: picks.College, Branch: picks.Branch, Cutoff: rank}
	s.entries = append(s.entries, entry)
	return entry, nil
}

// Show returns the list sorted by ascending rank without reordering the
// live list
func (s *Session) Show() ([]Entry, error) {
	if s.state != StateSelecting {
		return nil, core.ErrNotSelecting
	}
	if len(s.entries) == 0 {
		return nil, core.ErrEmptyList
	}
	return SortedByRank(s.entries), nil
}

// End clears the list and returns to Idle, whatever the current state
func (s *Session) End() {
	s.entries = nil
	s.state = StateIdle
	s.startedAt = time.Time{}
}
