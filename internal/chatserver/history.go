package chatserver

import (
	"fmt"
	"strings"
	"sync"
)

// HistoryStore keeps the ordered conversation log per session, in memory
// only. Entries are appended in user/assistant pairs and the log is
// truncated beyond maxTurns turns so it cannot grow without bound.
type HistoryStore struct {
	mu        sync.Mutex
	maxTurns  int
	histories map[string][]Entry
}

// NewHistoryStore creates a store capping each session at maxTurns turns
// (one turn is a user message plus the assistant reply). maxTurns <= 0
// disables the cap.
func NewHistoryStore(maxTurns int) *HistoryStore {
	return &HistoryStore{
		maxTurns:  maxTurns,
		histories: make(map[string][]Entry),
	}
}

// Create initializes an empty history for the session.
func (s *HistoryStore) Create(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.histories[id]; !ok {
		s.histories[id] = make([]Entry, 0, 8)
	}
}

// AppendTurn appends the user message and the assistant reply as one
// atomic pair, then truncates the oldest entries past the cap.
func (s *HistoryStore) AppendTurn(id, userMsg, botMsg string) {
	if id == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Sessions must be created first; a turn for a dropped session is
	// discarded rather than resurrecting the log.
	if _, ok := s.histories[id]; !ok {
		return
	}

	history := append(s.histories[id],
		Entry{Role: RoleUser, Content: userMsg},
		Entry{Role: RoleAssistant, Content: botMsg},
	)

	if max := 2 * s.maxTurns; s.maxTurns > 0 && len(history) > max {
		history = history[len(history)-max:]
	}
	s.histories[id] = history
}

// Append adds a single entry, rejecting roles other than user/assistant.
func (s *HistoryStore) Append(id string, entry Entry) error {
	role := strings.ToLower(strings.TrimSpace(entry.Role))
	if role != RoleUser && role != RoleAssistant {
		return fmt.Errorf("invalid history role %q", entry.Role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.histories[id]; !ok {
		return fmt.Errorf("unknown session %q", id)
	}
	s.histories[id] = append(s.histories[id], Entry{Role: role, Content: entry.Content})
	return nil
}

// History returns a copy of the session's conversation so far. Unknown
// ids yield an empty slice.
func (s *HistoryStore) History(id string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.histories[id]
	out := make([]Entry, len(history))
	copy(out, history)
	return out
}

// Len returns the number of entries stored for the session.
func (s *HistoryStore) Len(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.histories[id])
}

// Drop discards the session's history. Idempotent.
func (s *HistoryStore) Drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.histories, id)
}
