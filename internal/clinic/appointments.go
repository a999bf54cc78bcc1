package clinic

import (
	"github.com/rs/zerolog"

	"github.com/luis5368/web-clinica-medica/internal/api"
	"github.com/luis5368/web-clinica-medica/internal/core/domain"
	"github.com/luis5368/web-clinica-medica/internal/core/service"
)

type appointmentRecord struct {
	ID       int64  `json:"id"`
	Paciente string `json:"paciente"`
	Fecha    string `json:"fecha"`
	Hora     string `json:"hora"`
	Motivo   string `json:"motivo"`
}

func appointmentToDomain(w appointmentRecord) domain.Appointment {
	return domain.Appointment{
		ID:          w.ID,
		PatientName: w.Paciente,
		Date:        w.Fecha,
		Time:        w.Hora,
		Reason:      w.Motivo,
	}
}

func appointmentToWire(d domain.Appointment) appointmentRecord {
	return appointmentRecord{
		ID:       d.ID,
		Paciente: d.PatientName,
		Fecha:    d.Date,
		Hora:     d.Time,
		Motivo:   d.Reason,
	}
}

// AppointmentsController synchronizes the /api/citas collection.
type AppointmentsController = service.Controller[appointmentRecord, domain.Appointment]

func NewAppointments(client *api.Client, sess *service.SessionStore, log zerolog.Logger) *AppointmentsController {
	return service.NewController(
		"appointments",
		api.NewResourceGateway[appointmentRecord](client, "/api/citas"),
		sess,
		service.Mapping[appointmentRecord, domain.Appointment]{ToDomain: appointmentToDomain, ToWire: appointmentToWire},
		func(a domain.Appointment) int64 { return a.ID },
		log,
	)
}
