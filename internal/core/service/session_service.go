package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/luis5368/web-clinica-medica/internal/core/domain"
	"github.com/luis5368/web-clinica-medica/internal/core/ports"
)

// SessionStore is the single owner of the current identity. Every mutation
// (login, logout, forced invalidation) is idempotent, writes through to the
// persistence port, and bumps an epoch counter that resource controllers use
// to discard responses that resolve after the session they were issued under
// has ended.
type SessionStore struct {
	mu      sync.Mutex
	current domain.Session
	epoch   uint64

	persist ports.SessionPersistence
	auth    ports.AuthGateway
	log     zerolog.Logger
}

func NewSessionStore(persist ports.SessionPersistence, log zerolog.Logger) *SessionStore {
	return &SessionStore{persist: persist, log: log}
}

// SetAuthGateway wires the login endpoint. Separate from the constructor
// because the transport that carries the gateway needs the store first.
func (s *SessionStore) SetAuthGateway(auth ports.AuthGateway) {
	s.auth = auth
}

// Restore loads the persisted session at process start. State that violates
// the token-iff-role invariant is treated as corrupt: both halves are cleared
// on disk and the store comes up anonymous.
func (s *SessionStore) Restore() error {
	loaded, err := s.persist.Load()
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	if !loaded.Valid() {
		s.log.Warn().Msg("persisted session is half-written, clearing")
		if err := s.persist.Clear(); err != nil {
			return fmt.Errorf("clear corrupt session: %w", err)
		}
		loaded = domain.Session{}
	}

	s.mu.Lock()
	s.current = loaded
	s.epoch++
	s.mu.Unlock()

	if !loaded.Anonymous() {
		s.log.Info().Str("role", string(loaded.Role)).Msg("session restored")
	}
	return nil
}

// Login exchanges credentials for a fresh session. On failure the prior
// session state, including "no session", is left untouched.
func (s *SessionStore) Login(ctx context.Context, username, password string) (domain.Session, error) {
	if s.auth == nil {
		return domain.Session{}, fmt.Errorf("auth gateway not configured")
	}

	sess, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return domain.Session{}, err
	}
	if !sess.Valid() || sess.Anonymous() {
		return domain.Session{}, fmt.Errorf("login response missing token or role")
	}

	// The write-through happens under the same lock as the in-memory
	// mutation so disk always reflects the latest session change, even when
	// a logout races this login.
	s.mu.Lock()
	s.current = sess
	s.epoch++
	saveErr := s.persist.Save(sess)
	s.mu.Unlock()

	if saveErr != nil {
		s.log.Error().Err(saveErr).Msg("failed to persist session")
		return sess, fmt.Errorf("persist session: %w", saveErr)
	}

	s.log.Info().Str("username", username).Str("role", string(sess.Role)).Msg("logged in")
	return sess, nil
}

// Logout clears the session in memory and on disk. Calling it while already
// logged out is a no-op, not an error.
func (s *SessionStore) Logout() error {
	s.mu.Lock()
	wasAnonymous := s.current.Anonymous()
	s.current = domain.Session{}
	s.epoch++
	var clearErr error
	if !wasAnonymous {
		clearErr = s.persist.Clear()
	}
	s.mu.Unlock()

	if wasAnonymous {
		return nil
	}
	if clearErr != nil {
		return fmt.Errorf("clear session: %w", clearErr)
	}
	s.log.Info().Msg("logged out")
	return nil
}

// InvalidateIfCurrent tears the session down only when token is still the
// active one, and reports whether this call performed the teardown. With N
// concurrent rejections for the same token, exactly one caller gets true;
// the rest see an already-changed session and do nothing. Rejections for a
// token that has since been replaced by a fresh login are ignored entirely.
func (s *SessionStore) InvalidateIfCurrent(token string) bool {
	s.mu.Lock()
	if s.current.Anonymous() || s.current.Token != token {
		s.mu.Unlock()
		return false
	}
	s.current = domain.Session{}
	s.epoch++
	clearErr := s.persist.Clear()
	s.mu.Unlock()

	if clearErr != nil {
		s.log.Error().Err(clearErr).Msg("failed to clear invalidated session")
	}
	s.log.Warn().Msg("session invalidated by backend")
	return true
}

// Current returns a copy of the session as of this instant.
func (s *SessionStore) Current() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Epoch increases by one on every session change. Capture it before issuing
// a request and compare after: a mismatch means the response belongs to a
// session no surface is displaying anymore.
func (s *SessionStore) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}
