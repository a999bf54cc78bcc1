package devserver

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// collection is one in-memory resource collection with server-assigned,
// monotonically increasing ids.
type collection[T any] struct {
	mu    sync.Mutex
	next  int64
	items []T
	setID func(*T, int64)
	idOf  func(T) int64
}

func newCollection[T any](setID func(*T, int64), idOf func(T) int64, seed ...T) *collection[T] {
	c := &collection[T]{next: 1, setID: setID, idOf: idOf}
	for _, item := range seed {
		c.insert(item)
	}
	return c
}

func (c *collection[T]) list() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T{}, c.items...)
}

func (c *collection[T]) insert(item T) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setID(&item, c.next)
	c.next++
	c.items = append(c.items, item)
	return item
}

func (c *collection[T]) replace(id int64, item T) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.idOf(c.items[i]) == id {
			c.setID(&item, id)
			c.items[i] = item
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (c *collection[T]) remove(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.idOf(c.items[i]) == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// account is a login-capable application user.
type account struct {
	ID           int64
	Username     string
	PasswordHash []byte
	Role         string
	CreatedBy    *int64
}

// Store holds every backend collection plus the active-session table. The
// backend is single-session per user: binding a new token id kicks the old
// one, which is how the forced-logout path gets exercised for real.
type Store struct {
	mu       sync.Mutex
	accounts []account
	nextID   int64
	sessions map[string]string // username → current token id (jti)

	pacientes    *collection[paciente]
	inventario   *collection[inventario]
	empleados    *collection[empleado]
	habitaciones *collection[habitacion]
	historial    *collection[historial]
	citas        *collection[cita]
}

func newStore() *Store {
	s := &Store{
		nextID:   1,
		sessions: make(map[string]string),

		pacientes: newCollection(
			func(p *paciente, id int64) { p.ID = id },
			func(p paciente) int64 { return p.ID },
			paciente{Nombre: "Juan Pérez", Edad: 34, Genero: "M"},
			paciente{Nombre: "María López", Edad: 29, Genero: "F"},
			paciente{Nombre: "Carlos Ruiz", Edad: 61, Genero: "M"},
		),
		inventario: newCollection(
			func(i *inventario, id int64) { i.ID = id },
			func(i inventario) int64 { return i.ID },
			inventario{Nombre: "Paracetamol 500mg", Cantidad: 120},
			inventario{Nombre: "Gasas estériles", Cantidad: 40},
		),
		empleados: newCollection(
			func(e *empleado, id int64) { e.ID = id },
			func(e empleado) int64 { return e.ID },
			empleado{Nombre: "Laura Gómez", Puesto: "Recepción"},
		),
		habitaciones: newCollection(
			func(h *habitacion, id int64) { h.ID = id },
			func(h habitacion) int64 { return h.ID },
			habitacion{Numero: "101", Tipo: "Consulta"},
			habitacion{Numero: "201", Tipo: "Hospitalización"},
		),
		historial: newCollection(
			func(h *historial, id int64) { h.ID = id },
			func(h historial) int64 { return h.ID },
			historial{PacienteID: 1, Fecha: "2025-08-02", Diagnostico: "Hipertensión", Tratamiento: "Enalapril", Notas: "Control mensual"},
		),
		citas: newCollection(
			func(c *cita, id int64) { c.ID = id },
			func(c cita) int64 { return c.ID },
			cita{Paciente: "Juan Pérez", Fecha: "2025-09-10", Hora: "10:30", Motivo: "Control"},
		),
	}

	seedAccounts := []struct {
		username, password, role string
	}{
		{"root", "root123", "superadmin"},
		{"admin", "admin123", "admin"},
		{"recepcion1", "pw", "recepcionista"},
		{"medico1", "pw", "medico"},
		{"nurse1", "pw", "enfermero"},
	}
	for _, a := range seedAccounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.MinCost)
		if err != nil {
			panic(err)
		}
		s.accounts = append(s.accounts, account{
			ID:           s.nextID,
			Username:     a.username,
			PasswordHash: hash,
			Role:         a.role,
		})
		s.nextID++
	}
	return s
}

func (s *Store) findAccount(username string) (account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Username == username {
			return a, true
		}
	}
	return account{}, false
}

func (s *Store) listAccounts() []account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]account{}, s.accounts...)
}

func (s *Store) addAccount(username, password, role string, createdBy *int64) (account, bool) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return account{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Username == username {
			return account{}, false
		}
	}
	a := account{ID: s.nextID, Username: username, PasswordHash: hash, Role: role, CreatedBy: createdBy}
	s.nextID++
	s.accounts = append(s.accounts, a)
	return a, true
}

func (s *Store) removeAccount(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			delete(s.sessions, s.accounts[i].Username)
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			return true
		}
	}
	return false
}

// bindSession makes jti the user's one active token, invalidating whatever
// token was bound before.
func (s *Store) bindSession(username, jti string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[username] = jti
}

func (s *Store) sessionActive(username, jti string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[username] == jti
}
