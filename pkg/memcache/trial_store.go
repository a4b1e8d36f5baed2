package mem

import (
	"sync"
	"time"
)

// TrialState are the counters behind the free tier, scoped to an anonymous
// client session (the trial_session cookie), never to an account. They vanish
// on restart and when the client session expires; that is the intended scope.
type TrialState struct {
	ChatCount     int
	SessionsLeft  int
	CallStartedAt int64 // unix seconds, 0 when no call is active
}

type TrialStore interface {
	// Get returns the state for a client session, initializing the call pool
	// to maxSessions on first sight.
	Get(clientID string, maxSessions int) TrialState
	// Update applies fn to the state under the lock and returns the result.
	Update(clientID string, maxSessions int, fn func(*TrialState)) TrialState
}

type trialEntry struct {
	state    TrialState
	lastSeen time.Time
}

type Trials struct {
	mu   sync.Mutex
	data map[string]*trialEntry
	ttl  time.Duration
}

func NewTrials(ttl time.Duration) *Trials {
	return &Trials{
		data: make(map[string]*trialEntry),
		ttl:  ttl,
	}
}

func (s *Trials) get(clientID string, maxSessions int) *trialEntry {
	e, ok := s.data[clientID]
	if ok && s.ttl > 0 && time.Since(e.lastSeen) > s.ttl {
		delete(s.data, clientID)
		ok = false
	}
	if !ok {
		e = &trialEntry{state: TrialState{SessionsLeft: maxSessions}}
		s.data[clientID] = e
	}
	e.lastSeen = time.Now()
	return e
}

func (s *Trials) Get(clientID string, maxSessions int) TrialState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(clientID, maxSessions).state
}

func (s *Trials) Update(clientID string, maxSessions int, fn func(*TrialState)) TrialState {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.get(clientID, maxSessions)
	fn(&e.state)
	return e.state
}
