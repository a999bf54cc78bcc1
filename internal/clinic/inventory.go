package clinic

import (
	"github.com/rs/zerolog"

	"github.com/luis5368/web-clinica-medica/internal/api"
	"github.com/luis5368/web-clinica-medica/internal/core/domain"
	"github.com/luis5368/web-clinica-medica/internal/core/service"
)

type inventoryRecord struct {
	ID       int64  `json:"id"`
	Nombre   string `json:"nombre"`
	Cantidad int    `json:"cantidad"`
}

func inventoryToDomain(w inventoryRecord) domain.InventoryItem {
	return domain.InventoryItem{ID: w.ID, Name: w.Nombre, Quantity: w.Cantidad}
}

func inventoryToWire(d domain.InventoryItem) inventoryRecord {
	return inventoryRecord{ID: d.ID, Nombre: d.Name, Cantidad: d.Quantity}
}

// InventoryController synchronizes the /api/inventario collection.
type InventoryController = service.Controller[inventoryRecord, domain.InventoryItem]

func NewInventory(client *api.Client, sess *service.SessionStore, log zerolog.Logger) *InventoryController {
	return service.NewController(
		"inventory",
		api.NewResourceGateway[inventoryRecord](client, "/api/inventario"),
		sess,
		service.Mapping[inventoryRecord, domain.InventoryItem]{ToDomain: inventoryToDomain, ToWire: inventoryToWire},
		func(i domain.InventoryItem) int64 { return i.ID },
		log,
	)
}
