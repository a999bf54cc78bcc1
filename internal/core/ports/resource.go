package ports

import "context"

// ResourceGateway is one backend resource collection in its wire shape W.
// Implementations are transport-only: no caching, no mapping, no session
// awareness beyond the credentials the transport attaches.
type ResourceGateway[W any] interface {
	// List fetches the full collection.
	List(ctx context.Context) ([]W, error)
	// Create sends a new record and returns the canonical record as stored
	// by the backend, including its server-assigned id.
	Create(ctx context.Context, rec W) (W, error)
	// Update replaces the identified record and returns the canonical result.
	Update(ctx context.Context, id int64, rec W) (W, error)
	Delete(ctx context.Context, id int64) error
}
