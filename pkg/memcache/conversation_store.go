package mem

import (
	"sync"

	"github.com/John17712/theralink-app/internal/models/db_models"
)

// ConversationStore holds the process-local turn ledger keyed by
// (user id, session id). It is the immediate context window fed to the
// completion service; durable persistence is the session repository's job.
//
// The map itself is serialized behind a mutex, but the
// append-complete-append sequence of a single turn is not atomic per key:
// concurrent requests on the same session can interleave turns. Same-session
// concurrency is rare enough in practice that the hazard is documented
// rather than locked away.
type ConversationStore interface {
	Append(userID, sessionID string, msg db_models.Message)
	History(userID, sessionID string) []db_models.Message
	// RecentAssistant returns up to n most recent assistant turns,
	// newest first.
	RecentAssistant(userID, sessionID string, n int) []string
	Drop(userID, sessionID string)
}

type conversationKey struct {
	userID    string
	sessionID string
}

type Conversations struct {
	mu   sync.RWMutex
	data map[conversationKey][]db_models.Message
}

func NewConversations() *Conversations {
	return &Conversations{
		data: make(map[conversationKey][]db_models.Message),
	}
}

func (s *Conversations) Append(userID, sessionID string, msg db_models.Message) {
	key := conversationKey{userID, sessionID}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append(s.data[key], msg)
}

func (s *Conversations) History(userID, sessionID string) []db_models.Message {
	key := conversationKey{userID, sessionID}
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.data[key]
	out := make([]db_models.Message, len(turns))
	copy(out, turns)
	return out
}

func (s *Conversations) RecentAssistant(userID, sessionID string, n int) []string {
	key := conversationKey{userID, sessionID}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []string
	turns := s.data[key]
	for i := len(turns) - 1; i >= 0 && len(out) < n; i-- {
		if turns[i].Role == "assistant" {
			out = append(out, turns[i].Content)
		}
	}
	return out
}

func (s *Conversations) Drop(userID, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, conversationKey{userID, sessionID})
}
