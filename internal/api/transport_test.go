package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/luis5368/web-clinica-medica/internal/core/domain"
	"github.com/luis5368/web-clinica-medica/internal/core/ports"
	"github.com/luis5368/web-clinica-medica/internal/core/service"
)

// memPersistence keeps the session in memory for transport tests.
type memPersistence struct {
	mu     sync.Mutex
	stored domain.Session
}

func (p *memPersistence) Load() (domain.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stored, nil
}

func (p *memPersistence) Save(s domain.Session) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stored = s
	return nil
}

func (p *memPersistence) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stored = domain.Session{}
	return nil
}

func restoredStore(t *testing.T, sess domain.Session) *service.SessionStore {
	t.Helper()
	store := service.NewSessionStore(&memPersistence{stored: sess}, zerolog.Nop())
	if err := store.Restore(); err != nil {
		t.Fatalf("restore: %v", err)
	}
	return store
}

func TestTransport_AttachesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	defer backend.Close()

	store := restoredStore(t, domain.Session{Token: "tok-1", Role: domain.RoleNurse})
	client, err := NewClient(backend.URL, store, nil, time.Second, zerolog.Nop())
	if err != nil {
		t.Fatalf("client: %v", err)
	}

	gw := NewResourceGateway[map[string]any](client, "/api/pacientes")
	if _, err := gw.List(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}

	if gotAuth != "Bearer tok-1" {
		t.Fatalf("expected bearer token, got %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Fatalf("request id not attached")
	}
}

func TestTransport_NoBearerOnAuthRoutes(t *testing.T) {
	var gotAuth string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"fresh","user":{"role":"admin"}}`))
	}))
	defer backend.Close()

	store := restoredStore(t, domain.Session{Token: "stale", Role: domain.RoleAdmin})
	client, err := NewClient(backend.URL, store, nil, time.Second, zerolog.Nop())
	if err != nil {
		t.Fatalf("client: %v", err)
	}

	if _, err := NewAuthGateway(client).Login(context.Background(), "admin", "admin123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("login must not carry the old bearer token, got %q", gotAuth)
	}
}

func TestTransport_ConcurrentUnauthorized_TeardownExactlyOnce(t *testing.T) {
	const calls = 12

	release := make(chan struct{})
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release // hold every request so the 401s resolve together
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"session closed from another device"}`))
	}))
	defer backend.Close()

	store := restoredStore(t, domain.Session{Token: "tok-1", Role: domain.RoleNurse})

	var notices atomic.Int32
	var lastReason atomic.Value
	notifier := ports.NotifierFunc(func(reason string) {
		notices.Add(1)
		lastReason.Store(reason)
	})

	client, err := NewClient(backend.URL, store, notifier, 5*time.Second, zerolog.Nop())
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	gw := NewResourceGateway[map[string]any](client, "/api/pacientes")

	var wg sync.WaitGroup
	errs := make(chan error, calls)
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := gw.List(context.Background())
			errs <- err
		}()
	}
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if !errors.Is(err, domain.ErrSessionInvalidated) {
			t.Fatalf("expected ErrSessionInvalidated, got %v", err)
		}
	}
	if n := notices.Load(); n != 1 {
		t.Fatalf("expected exactly one notice, got %d", n)
	}
	if got := lastReason.Load(); got != "session closed from another device" {
		t.Fatalf("notice should carry the backend message, got %v", got)
	}
	if !store.Current().Anonymous() {
		t.Fatalf("session should be anonymous after forced logout")
	}
}

func TestTransport_UnauthorizedWithoutPayloadUsesDefaultMessage(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer backend.Close()

	store := restoredStore(t, domain.Session{Token: "tok-1", Role: domain.RoleNurse})

	var reason string
	notifier := ports.NotifierFunc(func(r string) { reason = r })

	client, err := NewClient(backend.URL, store, notifier, time.Second, zerolog.Nop())
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	gw := NewResourceGateway[map[string]any](client, "/api/pacientes")

	if _, err := gw.List(context.Background()); !errors.Is(err, domain.ErrSessionInvalidated) {
		t.Fatalf("expected ErrSessionInvalidated, got %v", err)
	}
	if reason != defaultClosedMessage {
		t.Fatalf("expected default message, got %q", reason)
	}
}

func TestLogin_RejectionIsNotAForcedLogout(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid credentials"}`))
	}))
	defer backend.Close()

	store := restoredStore(t, domain.Session{Token: "tok-1", Role: domain.RoleAdmin})

	var notices atomic.Int32
	notifier := ports.NotifierFunc(func(string) { notices.Add(1) })

	client, err := NewClient(backend.URL, store, notifier, time.Second, zerolog.Nop())
	if err != nil {
		t.Fatalf("client: %v", err)
	}

	_, err = NewAuthGateway(client).Login(context.Background(), "admin", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if notices.Load() != 0 {
		t.Fatalf("login rejection must not raise the session-closed notice")
	}
	if store.Current().Token != "tok-1" {
		t.Fatalf("login rejection must leave the existing session alone")
	}
}
