package service

import (
	"fmt"

	"github.com/luis5368/web-clinica-medica/internal/core/domain"
)

// Surface is one management view of the application. Concrete surfaces live
// in internal/surface; the router only needs to tell them apart.
type Surface interface {
	Name() string
}

// RoleRouter maps the current session to the surface to mount. It is pure
// dispatch: no session state of its own, no side effects.
//
//	no session      → login surface
//	registered role → that role's surface
//	anything else   → neutral fallback, deliberately not an error
type RoleRouter struct {
	login    Surface
	fallback Surface
	surfaces map[domain.Role]Surface
}

func NewRoleRouter(login, fallback Surface) *RoleRouter {
	return &RoleRouter{
		login:    login,
		fallback: fallback,
		surfaces: make(map[domain.Role]Surface),
	}
}

// Register binds a role to its surface. Adding a role to the application is
// exactly one Register call; a duplicate registration is a wiring mistake and
// fails with domain.ErrRoleTaken.
func (r *RoleRouter) Register(role domain.Role, s Surface) error {
	if _, exists := r.surfaces[role]; exists {
		return fmt.Errorf("%w: %s", domain.ErrRoleTaken, role)
	}
	r.surfaces[role] = s
	return nil
}

// Resolve picks the surface for the given session.
func (r *RoleRouter) Resolve(sess domain.Session) Surface {
	if sess.Anonymous() {
		return r.login
	}
	if s, ok := r.surfaces[sess.Role]; ok {
		return s
	}
	return r.fallback
}
