package domain

// Role is the category of signed-in actor. The set mirrors the roles the
// clinic backend issues; anything outside it is still carried verbatim so the
// router can send it to the fallback surface instead of failing.
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleReception  Role = "recepcionista"
	RoleClinician  Role = "medico"
	RoleNurse      Role = "enfermero"
)

// Known reports whether the role is one the application registers a surface for.
func (r Role) Known() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleReception, RoleClinician, RoleNurse:
		return true
	}
	return false
}

// Session is the (token, role) pair identifying the current signed-in actor.
// Invariant: Token and Role are both set or both empty.
type Session struct {
	Token string `json:"token"`
	Role  Role   `json:"role"`
}

// Anonymous reports whether no one is signed in.
func (s Session) Anonymous() bool {
	return s.Token == ""
}

// Valid reports whether the pair respects the both-or-neither invariant.
func (s Session) Valid() bool {
	return (s.Token == "") == (s.Role == "")
}
