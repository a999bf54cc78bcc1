package clinic

import (
	"github.com/rs/zerolog"

	"github.com/luis5368/web-clinica-medica/internal/api"
	"github.com/luis5368/web-clinica-medica/internal/core/domain"
	"github.com/luis5368/web-clinica-medica/internal/core/service"
)

type roomRecord struct {
	ID     int64  `json:"id"`
	Numero string `json:"numero"`
	Tipo   string `json:"tipo"`
}

func roomToDomain(w roomRecord) domain.Room {
	return domain.Room{ID: w.ID, Number: w.Numero, Kind: w.Tipo}
}

func roomToWire(d domain.Room) roomRecord {
	return roomRecord{ID: d.ID, Numero: d.Number, Tipo: d.Kind}
}

// RoomsController synchronizes the /api/habitaciones collection.
type RoomsController = service.Controller[roomRecord, domain.Room]

func NewRooms(client *api.Client, sess *service.SessionStore, log zerolog.Logger) *RoomsController {
	return service.NewController(
		"rooms",
		api.NewResourceGateway[roomRecord](client, "/api/habitaciones"),
		sess,
		service.Mapping[roomRecord, domain.Room]{ToDomain: roomToDomain, ToWire: roomToWire},
		func(r domain.Room) int64 { return r.ID },
		log,
	)
}
