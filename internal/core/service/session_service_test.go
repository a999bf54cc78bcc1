package service

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/luis5368/web-clinica-medica/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub persistence and auth gateway
// ---------------------------------------------------------------------------

type stubPersistence struct {
	mu     sync.Mutex
	stored domain.Session
	saves  int
	clears int
}

func (p *stubPersistence) Load() (domain.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stored, nil
}

func (p *stubPersistence) Save(s domain.Session) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stored = s
	p.saves++
	return nil
}

func (p *stubPersistence) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stored = domain.Session{}
	p.clears++
	return nil
}

type stubAuthGateway struct {
	session domain.Session
	err     error
	calls   int
}

func (g *stubAuthGateway) Login(_ context.Context, username, password string) (domain.Session, error) {
	g.calls++
	if g.err != nil {
		return domain.Session{}, g.err
	}
	return g.session, nil
}

func newTestStore(persist *stubPersistence, auth *stubAuthGateway) *SessionStore {
	s := NewSessionStore(persist, zerolog.Nop())
	if auth != nil {
		s.SetAuthGateway(auth)
	}
	return s
}

// ---------------------------------------------------------------------------

func TestLogin_SetsAndPersistsBothHalves(t *testing.T) {
	persist := &stubPersistence{}
	auth := &stubAuthGateway{session: domain.Session{Token: "tok-1", Role: domain.RoleNurse}}
	store := newTestStore(persist, auth)

	sess, err := store.Login(context.Background(), "nurse1", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Token != "tok-1" || sess.Role != domain.RoleNurse {
		t.Fatalf("unexpected session %+v", sess)
	}
	if cur := store.Current(); cur != sess {
		t.Fatalf("current session %+v does not match login result", cur)
	}
	if persist.stored != sess {
		t.Fatalf("session not written through: %+v", persist.stored)
	}
	if !sess.Valid() {
		t.Fatalf("token/role invariant violated: %+v", sess)
	}
}

func TestLogin_FailureLeavesSessionUntouched(t *testing.T) {
	persist := &stubPersistence{}
	auth := &stubAuthGateway{session: domain.Session{Token: "tok-1", Role: domain.RoleAdmin}}
	store := newTestStore(persist, auth)

	if _, err := store.Login(context.Background(), "admin", "admin123"); err != nil {
		t.Fatalf("first login: %v", err)
	}
	before := store.Current()

	auth.err = domain.ErrInvalidCredentials
	if _, err := store.Login(context.Background(), "admin", "wrong"); err == nil {
		t.Fatalf("expected login failure")
	}

	if cur := store.Current(); cur != before {
		t.Fatalf("failed login mutated session: %+v != %+v", cur, before)
	}
}

func TestLogin_FailureFromAnonymousStaysAnonymous(t *testing.T) {
	store := newTestStore(&stubPersistence{}, &stubAuthGateway{err: domain.ErrInvalidCredentials})

	if _, err := store.Login(context.Background(), "ghost", "pw"); err == nil {
		t.Fatalf("expected login failure")
	}
	if !store.Current().Anonymous() {
		t.Fatalf("session should remain anonymous")
	}
}

func TestLogout_IdempotentAndClearsBothHalves(t *testing.T) {
	persist := &stubPersistence{}
	auth := &stubAuthGateway{session: domain.Session{Token: "tok-1", Role: domain.RoleReception}}
	store := newTestStore(persist, auth)

	if _, err := store.Login(context.Background(), "recepcion1", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := store.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if cur := store.Current(); !cur.Anonymous() || cur.Role != "" {
		t.Fatalf("logout left state behind: %+v", cur)
	}
	if persist.stored != (domain.Session{}) {
		t.Fatalf("persisted state not cleared: %+v", persist.stored)
	}

	// Second logout is a no-op, not an error.
	if err := store.Logout(); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if persist.clears != 1 {
		t.Fatalf("expected exactly one clear, got %d", persist.clears)
	}
}

// blockingPersistence parks Save until released, recording the order of
// write-through operations.
type blockingPersistence struct {
	stubPersistence
	entered chan struct{}
	release chan struct{}
	ops     []string
}

func (p *blockingPersistence) Save(s domain.Session) error {
	p.entered <- struct{}{}
	<-p.release
	p.mu.Lock()
	p.ops = append(p.ops, "save")
	p.mu.Unlock()
	return p.stubPersistence.Save(s)
}

func (p *blockingPersistence) Clear() error {
	p.mu.Lock()
	p.ops = append(p.ops, "clear")
	p.mu.Unlock()
	return p.stubPersistence.Clear()
}

func TestLogout_DuringLoginWriteThroughCannotResurrectSession(t *testing.T) {
	persist := &blockingPersistence{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	auth := &stubAuthGateway{session: domain.Session{Token: "tok-1", Role: domain.RoleNurse}}
	store := NewSessionStore(persist, zerolog.Nop())
	store.SetAuthGateway(auth)

	loginDone := make(chan error, 1)
	go func() {
		_, err := store.Login(context.Background(), "nurse1", "pw")
		loginDone <- err
	}()
	<-persist.entered

	// A logout issued while login is mid write-through must wait for it and
	// land after, so disk cannot end up holding the resurrected session.
	logoutDone := make(chan error, 1)
	go func() { logoutDone <- store.Logout() }()
	close(persist.release)

	if err := <-loginDone; err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := <-logoutDone; err != nil {
		t.Fatalf("logout: %v", err)
	}

	if !store.Current().Anonymous() {
		t.Fatalf("session should end anonymous")
	}
	if persist.stored != (domain.Session{}) {
		t.Fatalf("disk diverged from memory: %+v", persist.stored)
	}
	if len(persist.ops) != 2 || persist.ops[0] != "save" || persist.ops[1] != "clear" {
		t.Fatalf("write-through order: %v", persist.ops)
	}
}

func TestRestore_RoundTrip(t *testing.T) {
	persist := &stubPersistence{stored: domain.Session{Token: "tok-9", Role: domain.RoleClinician}}
	store := newTestStore(persist, nil)

	if err := store.Restore(); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if cur := store.Current(); cur.Token != "tok-9" || cur.Role != domain.RoleClinician {
		t.Fatalf("restore mismatch: %+v", cur)
	}
}

func TestRestore_HalfWrittenStateFailsSafe(t *testing.T) {
	cases := []domain.Session{
		{Token: "tok-only"},
		{Role: domain.RoleAdmin},
	}
	for _, stored := range cases {
		persist := &stubPersistence{stored: stored}
		store := newTestStore(persist, nil)

		if err := store.Restore(); err != nil {
			t.Fatalf("restore: %v", err)
		}
		if !store.Current().Anonymous() {
			t.Fatalf("corrupt state %+v should restore as anonymous", stored)
		}
		if persist.clears != 1 {
			t.Fatalf("corrupt state %+v should be cleared on disk", stored)
		}
	}
}

func TestInvalidateIfCurrent_ExactlyOnceUnderConcurrency(t *testing.T) {
	const workers = 16

	persist := &stubPersistence{}
	auth := &stubAuthGateway{session: domain.Session{Token: "tok-1", Role: domain.RoleNurse}}
	store := newTestStore(persist, auth)

	if _, err := store.Login(context.Background(), "nurse1", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	var wg sync.WaitGroup
	results := make(chan bool, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- store.InvalidateIfCurrent("tok-1")
		}()
	}
	wg.Wait()
	close(results)

	teardowns := 0
	for won := range results {
		if won {
			teardowns++
		}
	}
	if teardowns != 1 {
		t.Fatalf("expected exactly one teardown, got %d", teardowns)
	}
	if !store.Current().Anonymous() {
		t.Fatalf("session should be anonymous after invalidation")
	}
}

func TestInvalidateIfCurrent_IgnoresStaleToken(t *testing.T) {
	persist := &stubPersistence{}
	auth := &stubAuthGateway{session: domain.Session{Token: "tok-2", Role: domain.RoleNurse}}
	store := newTestStore(persist, auth)

	if _, err := store.Login(context.Background(), "nurse1", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	// A rejection for a token that has since been replaced must not touch
	// the fresh session.
	if store.InvalidateIfCurrent("tok-1") {
		t.Fatalf("stale token should not invalidate")
	}
	if store.Current().Token != "tok-2" {
		t.Fatalf("fresh session was lost")
	}
}

func TestEpoch_BumpsOnEverySessionChange(t *testing.T) {
	persist := &stubPersistence{}
	auth := &stubAuthGateway{session: domain.Session{Token: "tok-1", Role: domain.RoleAdmin}}
	store := newTestStore(persist, auth)

	before := store.Epoch()
	if _, err := store.Login(context.Background(), "admin", "admin123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	afterLogin := store.Epoch()
	if afterLogin == before {
		t.Fatalf("login did not move the epoch")
	}

	if err := store.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if store.Epoch() == afterLogin {
		t.Fatalf("logout did not move the epoch")
	}
}
