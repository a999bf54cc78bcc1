package clinic

import (
	"github.com/rs/zerolog"

	"github.com/luis5368/web-clinica-medica/internal/api"
	"github.com/luis5368/web-clinica-medica/internal/core/domain"
	"github.com/luis5368/web-clinica-medica/internal/core/service"
)

type employeeRecord struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Puesto string `json:"puesto"`
}

func employeeToDomain(w employeeRecord) domain.Employee {
	return domain.Employee{ID: w.ID, Name: w.Nombre, Position: w.Puesto}
}

func employeeToWire(d domain.Employee) employeeRecord {
	return employeeRecord{ID: d.ID, Nombre: d.Name, Puesto: d.Position}
}

// StaffController synchronizes the /api/empleados collection.
type StaffController = service.Controller[employeeRecord, domain.Employee]

func NewStaff(client *api.Client, sess *service.SessionStore, log zerolog.Logger) *StaffController {
	return service.NewController(
		"staff",
		api.NewResourceGateway[employeeRecord](client, "/api/empleados"),
		sess,
		service.Mapping[employeeRecord, domain.Employee]{ToDomain: employeeToDomain, ToWire: employeeToWire},
		func(e domain.Employee) int64 { return e.ID },
		log,
	)
}
