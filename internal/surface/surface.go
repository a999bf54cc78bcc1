// Package surface composes the management views of the application: which
// resource controllers each role gets. Surfaces carry no behaviour of their
// own — rendering is someone else's problem — they are the wiring between a
// role and its set of controllers.
package surface

import (
	"github.com/rs/zerolog"

	"github.com/luis5368/web-clinica-medica/internal/api"
	"github.com/luis5368/web-clinica-medica/internal/clinic"
	"github.com/luis5368/web-clinica-medica/internal/core/domain"
	"github.com/luis5368/web-clinica-medica/internal/core/service"
)

// Login is the anonymous surface.
type Login struct{}

func (Login) Name() string { return "login" }

// Unrecognized is the deliberate fallback for a session whose role has no
// registered surface. Not an error: the session is real, the client just has
// nothing to show for it.
type Unrecognized struct{}

func (Unrecognized) Name() string { return "unrecognized-role" }

// Admin manages every clinic resource plus application accounts.
type Admin struct {
	Users        *clinic.UsersController
	Patients     *clinic.PatientsController
	Inventory    *clinic.InventoryController
	Staff        *clinic.StaffController
	Rooms        *clinic.RoomsController
	Records      *clinic.RecordsController
	Appointments *clinic.AppointmentsController
}

func (*Admin) Name() string { return "admin" }

// SuperAdmin has the admin surface with account management over admins too;
// the backend enforces the wider account scope, the composition is the same.
type SuperAdmin struct {
	Admin
}

func (*SuperAdmin) Name() string { return "superadmin" }

// Reception handles the front desk: patients, appointments, rooms.
type Reception struct {
	Patients     *clinic.PatientsController
	Appointments *clinic.AppointmentsController
	Rooms        *clinic.RoomsController
}

func (*Reception) Name() string { return "reception" }

// Clinician sees patients and writes clinical history entries.
type Clinician struct {
	Patients *clinic.PatientsController
	Records  *clinic.RecordsController
}

func (*Clinician) Name() string { return "clinician" }

// Nurse consults patients, history and the appointment book.
type Nurse struct {
	Patients     *clinic.PatientsController
	Records      *clinic.RecordsController
	Appointments *clinic.AppointmentsController
}

func (*Nurse) Name() string { return "nurse" }

// NewRouter builds the role router with every surface registered. Each
// surface instantiates its own controllers; controllers are not shared
// between surfaces, only the session and the client under them are.
func NewRouter(client *api.Client, sess *service.SessionStore, log zerolog.Logger) (*service.RoleRouter, error) {
	router := service.NewRoleRouter(Login{}, Unrecognized{})

	admin := &Admin{
		Users:        clinic.NewUsers(client, sess, log),
		Patients:     clinic.NewPatients(client, sess, log),
		Inventory:    clinic.NewInventory(client, sess, log),
		Staff:        clinic.NewStaff(client, sess, log),
		Rooms:        clinic.NewRooms(client, sess, log),
		Records:      clinic.NewRecords(client, sess, log),
		Appointments: clinic.NewAppointments(client, sess, log),
	}
	superAdmin := &SuperAdmin{Admin: Admin{
		Users:        clinic.NewUsers(client, sess, log),
		Patients:     clinic.NewPatients(client, sess, log),
		Inventory:    clinic.NewInventory(client, sess, log),
		Staff:        clinic.NewStaff(client, sess, log),
		Rooms:        clinic.NewRooms(client, sess, log),
		Records:      clinic.NewRecords(client, sess, log),
		Appointments: clinic.NewAppointments(client, sess, log),
	}}
	reception := &Reception{
		Patients:     clinic.NewPatients(client, sess, log),
		Appointments: clinic.NewAppointments(client, sess, log),
		Rooms:        clinic.NewRooms(client, sess, log),
	}
	clinician := &Clinician{
		Patients: clinic.NewPatients(client, sess, log),
		Records:  clinic.NewRecords(client, sess, log),
	}
	nurse := &Nurse{
		Patients:     clinic.NewPatients(client, sess, log),
		Records:      clinic.NewRecords(client, sess, log),
		Appointments: clinic.NewAppointments(client, sess, log),
	}

	for _, reg := range []struct {
		role domain.Role
		s    service.Surface
	}{
		{domain.RoleSuperAdmin, superAdmin},
		{domain.RoleAdmin, admin},
		{domain.RoleReception, reception},
		{domain.RoleClinician, clinician},
		{domain.RoleNurse, nurse},
	} {
		if err := router.Register(reg.role, reg.s); err != nil {
			return nil, err
		}
	}
	return router, nil
}
