package clinic

import (
	"github.com/rs/zerolog"

	"github.com/luis5368/web-clinica-medica/internal/api"
	"github.com/luis5368/web-clinica-medica/internal/core/domain"
	"github.com/luis5368/web-clinica-medica/internal/core/service"
)

// historyRecord is the only wire shape with a camelCase key; the legacy
// backend is inconsistent here and the mapping hides that from the domain.
type historyRecord struct {
	ID          int64  `json:"id"`
	PacienteID  int64  `json:"pacienteId"`
	Fecha       string `json:"fecha"`
	Diagnostico string `json:"diagnostico"`
	Tratamiento string `json:"tratamiento"`
	Notas       string `json:"notas"`
}

func historyToDomain(w historyRecord) domain.MedicalRecord {
	return domain.MedicalRecord{
		ID:        w.ID,
		PatientID: w.PacienteID,
		Date:      w.Fecha,
		Diagnosis: w.Diagnostico,
		Treatment: w.Tratamiento,
		Notes:     w.Notas,
	}
}

func historyToWire(d domain.MedicalRecord) historyRecord {
	return historyRecord{
		ID:          d.ID,
		PacienteID:  d.PatientID,
		Fecha:       d.Date,
		Diagnostico: d.Diagnosis,
		Tratamiento: d.Treatment,
		Notas:       d.Notes,
	}
}

// RecordsController synchronizes the /api/historial collection.
type RecordsController = service.Controller[historyRecord, domain.MedicalRecord]

func NewRecords(client *api.Client, sess *service.SessionStore, log zerolog.Logger) *RecordsController {
	return service.NewController(
		"records",
		api.NewResourceGateway[historyRecord](client, "/api/historial"),
		sess,
		service.Mapping[historyRecord, domain.MedicalRecord]{ToDomain: historyToDomain, ToWire: historyToWire},
		func(r domain.MedicalRecord) int64 { return r.ID },
		log,
	)
}
