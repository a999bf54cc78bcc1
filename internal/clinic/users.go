package clinic

import (
	"github.com/rs/zerolog"

	"github.com/luis5368/web-clinica-medica/internal/api"
	"github.com/luis5368/web-clinica-medica/internal/core/domain"
	"github.com/luis5368/web-clinica-medica/internal/core/service"
)

// userRecord carries password only on the way out (create); the backend never
// echoes it back.
type userRecord struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Password  string `json:"password,omitempty"`
	Role      string `json:"role"`
	CreatedBy *int64 `json:"created_by"`
}

func userToDomain(w userRecord) domain.User {
	u := domain.User{ID: w.ID, Username: w.Username, Role: domain.Role(w.Role)}
	if w.CreatedBy != nil {
		u.CreatedBy = *w.CreatedBy
	}
	return u
}

func userToWire(d domain.User) userRecord {
	w := userRecord{ID: d.ID, Username: d.Username, Password: d.Password, Role: string(d.Role)}
	if d.CreatedBy != 0 {
		w.CreatedBy = &d.CreatedBy
	}
	return w
}

// UsersController synchronizes the /api/users collection.
type UsersController = service.Controller[userRecord, domain.User]

func NewUsers(client *api.Client, sess *service.SessionStore, log zerolog.Logger) *UsersController {
	return service.NewController(
		"users",
		api.NewResourceGateway[userRecord](client, "/api/users"),
		sess,
		service.Mapping[userRecord, domain.User]{ToDomain: userToDomain, ToWire: userToWire},
		func(u domain.User) int64 { return u.ID },
		log,
	)
}
