package ports

import (
	"context"

	"github.com/luis5368/web-clinica-medica/internal/core/domain"
)

// SessionPersistence stores the (token, role) pair durably so a later process
// start reconstructs the same session. Save and Clear must be write-through:
// by the time they return, the state on disk matches the arguments.
type SessionPersistence interface {
	// Load returns the persisted session, or an anonymous one when nothing
	// (or corrupt state) is stored.
	Load() (domain.Session, error)
	Save(s domain.Session) error
	Clear() error
}

// AuthGateway is the backend's login endpoint as seen by the session layer.
type AuthGateway interface {
	// Login exchanges credentials for a session. Rejected credentials map to
	// domain.ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (domain.Session, error)
}

// Notifier surfaces the forced-logout notice to whoever is watching the
// application (terminal, UI layer, test). Called at most once per teardown.
type Notifier interface {
	SessionClosed(reason string)
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(reason string)

func (f NotifierFunc) SessionClosed(reason string) { f(reason) }
