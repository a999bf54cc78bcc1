// Package clinic binds the generic resource controller to each collection of
// the legacy clinic backend: one file per resource holding its wire schema
// (the backend's Spanish field layout), the toDomain/toWire mapping pair, and
// the controller constructor. Adding a resource means adding one such file.
package clinic

import (
	"github.com/rs/zerolog"

	"github.com/luis5368/web-clinica-medica/internal/api"
	"github.com/luis5368/web-clinica-medica/internal/core/domain"
	"github.com/luis5368/web-clinica-medica/internal/core/service"
)

type patientRecord struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Edad   int    `json:"edad"`
	Genero string `json:"genero"`
}

func patientToDomain(w patientRecord) domain.Patient {
	return domain.Patient{ID: w.ID, Name: w.Nombre, Age: w.Edad, Gender: w.Genero}
}

func patientToWire(d domain.Patient) patientRecord {
	return patientRecord{ID: d.ID, Nombre: d.Name, Edad: d.Age, Genero: d.Gender}
}

// PatientsController synchronizes the /api/pacientes collection.
type PatientsController = service.Controller[patientRecord, domain.Patient]

func NewPatients(client *api.Client, sess *service.SessionStore, log zerolog.Logger) *PatientsController {
	return service.NewController(
		"patients",
		api.NewResourceGateway[patientRecord](client, "/api/pacientes"),
		sess,
		service.Mapping[patientRecord, domain.Patient]{ToDomain: patientToDomain, ToWire: patientToWire},
		func(p domain.Patient) int64 { return p.ID },
		log,
	)
}
