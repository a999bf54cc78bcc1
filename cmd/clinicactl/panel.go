package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/luis5368/web-clinica-medica/internal/api"
	"github.com/luis5368/web-clinica-medica/internal/core/domain"
	"github.com/luis5368/web-clinica-medica/internal/core/service"
	"github.com/luis5368/web-clinica-medica/internal/surface"
)

func newRouter(client *api.Client, sess *service.SessionStore, log zerolog.Logger) (*service.RoleRouter, error) {
	return surface.NewRouter(client, sess, log)
}

// panel is a surface flattened into what the terminal can do with it:
// named list, add and remove operations.
type panel struct {
	name     string
	listers  map[string]func(ctx context.Context) ([]string, error)
	creators map[string]func(ctx context.Context, args []string) (string, error)
	removers map[string]func(ctx context.Context, id int64) error
}

func (a *app) panel() (*panel, error) {
	switch s := a.router.Resolve(a.session.Current()).(type) {
	case surface.Login:
		return nil, fmt.Errorf("not signed in; run clinicactl login first")
	case surface.Unrecognized:
		return nil, fmt.Errorf("your role has no surface in this client")
	case *surface.SuperAdmin:
		return adminPanel(&s.Admin, s.Name()), nil
	case *surface.Admin:
		return adminPanel(s, s.Name()), nil
	case *surface.Reception:
		p := newPanel(s.Name())
		addResource(p, "patients", s.Patients, formatPatient, parsePatient)
		addResource(p, "appointments", s.Appointments, formatAppointment, parseAppointment)
		addResource(p, "rooms", s.Rooms, formatRoom, parseRoom)
		return p, nil
	case *surface.Clinician:
		p := newPanel(s.Name())
		addResource(p, "patients", s.Patients, formatPatient, parsePatient)
		addResource(p, "records", s.Records, formatRecord, parseRecord)
		return p, nil
	case *surface.Nurse:
		p := newPanel(s.Name())
		addResource(p, "patients", s.Patients, formatPatient, parsePatient)
		addResource(p, "records", s.Records, formatRecord, parseRecord)
		addResource(p, "appointments", s.Appointments, formatAppointment, parseAppointment)
		return p, nil
	default:
		return nil, fmt.Errorf("unknown surface")
	}
}

func adminPanel(s *surface.Admin, name string) *panel {
	p := newPanel(name)
	addResource(p, "users", s.Users, formatUser, parseUser)
	addResource(p, "patients", s.Patients, formatPatient, parsePatient)
	addResource(p, "inventory", s.Inventory, formatInventory, parseInventory)
	addResource(p, "staff", s.Staff, formatEmployee, parseEmployee)
	addResource(p, "rooms", s.Rooms, formatRoom, parseRoom)
	addResource(p, "records", s.Records, formatRecord, parseRecord)
	addResource(p, "appointments", s.Appointments, formatAppointment, parseAppointment)
	return p
}

func newPanel(name string) *panel {
	return &panel{
		name:     name,
		listers:  make(map[string]func(ctx context.Context) ([]string, error)),
		creators: make(map[string]func(ctx context.Context, args []string) (string, error)),
		removers: make(map[string]func(ctx context.Context, id int64) error),
	}
}

func addResource[W, D any](p *panel, name string, c *service.Controller[W, D], format func(D) string, parse func(args []string) (D, error)) {
	p.listers[name] = func(ctx context.Context) ([]string, error) {
		records, err := c.List(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]string, len(records))
		for i, r := range records {
			rows[i] = format(r)
		}
		return rows, nil
	}
	p.creators[name] = func(ctx context.Context, args []string) (string, error) {
		input, err := parse(args)
		if err != nil {
			return "", err
		}
		created, err := c.Create(ctx, input)
		if err != nil {
			return "", err
		}
		return format(created), nil
	}
	p.removers[name] = c.Remove
}

func formatPatient(p domain.Patient) string {
	return fmt.Sprintf("%-4d %-24s age %-3d %s", p.ID, p.Name, p.Age, p.Gender)
}

func formatInventory(i domain.InventoryItem) string {
	return fmt.Sprintf("%-4d %-32s x%d", i.ID, i.Name, i.Quantity)
}

func formatEmployee(e domain.Employee) string {
	return fmt.Sprintf("%-4d %-24s %s", e.ID, e.Name, e.Position)
}

func formatRoom(r domain.Room) string {
	return fmt.Sprintf("%-4d room %-6s %s", r.ID, r.Number, r.Kind)
}

func formatRecord(r domain.MedicalRecord) string {
	return fmt.Sprintf("%-4d patient=%-4d %s %s / %s", r.ID, r.PatientID, r.Date, r.Diagnosis, r.Treatment)
}

func formatAppointment(a domain.Appointment) string {
	return fmt.Sprintf("%-4d %-24s %s %s %s", a.ID, a.PatientName, a.Date, a.Time, a.Reason)
}

func formatUser(u domain.User) string {
	return fmt.Sprintf("%-4d %-20s %s", u.ID, u.Username, u.Role)
}

// Parsers turn "add <resource> <args...>" positional arguments into a domain
// record. They only shape the input; required-field enforcement stays with
// the controller's validation.

func argsError(usage string) error {
	return fmt.Errorf("usage: add %s", usage)
}

func parsePatient(args []string) (domain.Patient, error) {
	if len(args) < 2 || len(args) > 3 {
		return domain.Patient{}, argsError("patients <name> <age> [gender]")
	}
	age, err := strconv.Atoi(args[1])
	if err != nil {
		return domain.Patient{}, fmt.Errorf("invalid age %q", args[1])
	}
	p := domain.Patient{Name: args[0], Age: age}
	if len(args) == 3 {
		p.Gender = args[2]
	}
	return p, nil
}

func parseInventory(args []string) (domain.InventoryItem, error) {
	if len(args) != 2 {
		return domain.InventoryItem{}, argsError("inventory <name> <quantity>")
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("invalid quantity %q", args[1])
	}
	return domain.InventoryItem{Name: args[0], Quantity: qty}, nil
}

func parseEmployee(args []string) (domain.Employee, error) {
	if len(args) != 2 {
		return domain.Employee{}, argsError("staff <name> <position>")
	}
	return domain.Employee{Name: args[0], Position: args[1]}, nil
}

func parseRoom(args []string) (domain.Room, error) {
	if len(args) != 2 {
		return domain.Room{}, argsError("rooms <number> <kind>")
	}
	return domain.Room{Number: args[0], Kind: args[1]}, nil
}

func parseRecord(args []string) (domain.MedicalRecord, error) {
	if len(args) < 3 || len(args) > 5 {
		return domain.MedicalRecord{}, argsError("records <patient-id> <date> <diagnosis> [treatment] [notes]")
	}
	patientID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return domain.MedicalRecord{}, fmt.Errorf("invalid patient id %q", args[0])
	}
	r := domain.MedicalRecord{PatientID: patientID, Date: args[1], Diagnosis: args[2]}
	if len(args) > 3 {
		r.Treatment = args[3]
	}
	if len(args) > 4 {
		r.Notes = args[4]
	}
	return r, nil
}

func parseAppointment(args []string) (domain.Appointment, error) {
	if len(args) != 4 {
		return domain.Appointment{}, argsError("appointments <patient> <date> <time> <reason>")
	}
	return domain.Appointment{PatientName: args[0], Date: args[1], Time: args[2], Reason: args[3]}, nil
}

func parseUser(args []string) (domain.User, error) {
	if len(args) != 3 {
		return domain.User{}, argsError("users <username> <password> <role>")
	}
	role := domain.Role(strings.ToLower(args[2]))
	if !role.Known() {
		return domain.User{}, fmt.Errorf("unknown role %q", args[2])
	}
	return domain.User{Username: args[0], Password: args[1], Role: role}, nil
}
