package mem

import (
	"sync"
	"time"
)

// Token purposes. Setup tokens come from admin grants and group invites,
// reset tokens from the forgot-password flow. A token is only valid for the
// purpose it was minted with.
const (
	PurposeSetup = "setup-password"
	PurposeReset = "password-reset"
)

type TokenStore interface {
	Set(token, purpose, accountEmail string, ttl time.Duration)

	// Consume returns the email bound to token if it matches purpose and has
	// not expired, removing it (single-use). Returns "" otherwise.
	Consume(token, purpose string) string

	// Peek reads without consuming.
	Peek(token, purpose string) (string, bool)
}

type entry struct {
	email     string
	purpose   string
	expiresAt time.Time
}

type Tokens struct {
	mu   sync.RWMutex
	data map[string]entry
}

func NewTokens() *Tokens {
	return &Tokens{
		data: make(map[string]entry),
	}
}

func (s *Tokens) Set(token, purpose, accountEmail string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[token] = entry{
		email:     accountEmail,
		purpose:   purpose,
		expiresAt: time.Now().Add(ttl),
	}
}

func (s *Tokens) Consume(token, purpose string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[token]
	if !ok {
		return ""
	}
	if time.Now().After(e.expiresAt) {
		delete(s.data, token) // cleanup expired
		return ""
	}
	if e.purpose != purpose {
		return ""
	}
	delete(s.data, token) // single-use
	return e.email
}

func (s *Tokens) Peek(token, purpose string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[token]
	if !ok || e.purpose != purpose || time.Now().After(e.expiresAt) {
		return "", false
	}
	return e.email, true
}
