package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/luis5368/web-clinica-medica/internal/core/domain"
	"github.com/luis5368/web-clinica-medica/internal/core/ports"
)

// Mapping converts between the backend's wire shape W and the domain shape D
// consumed by the surfaces. Both directions must be pure and total: every
// wire field has a home in D and survives a round trip.
type Mapping[W, D any] struct {
	ToDomain func(W) D
	ToWire   func(D) W
}

var validate = validator.New()

// Controller is the generic synchronization unit between one backend resource
// collection and its local cache. One instantiation per resource type; the
// per-resource part is only the gateway path and the Mapping pair.
//
// The cache is advisory, the backend is the authority: List replaces it
// atomically with the last successful full fetch, and mutations touch it only
// after the backend has confirmed — create appends the server's canonical
// record (the one case that is safe without a re-fetch, because the appended
// id is server-assigned), update replaces by id, remove deletes by id. Any
// failure leaves the cache exactly as it was.
//
// Responses that resolve after the session changed are discarded without
// touching the cache; no one is looking at that cache anymore.
type Controller[W, D any] struct {
	name    string
	gateway ports.ResourceGateway[W]
	session *SessionStore
	mapping Mapping[W, D]
	idOf    func(D) int64
	log     zerolog.Logger

	mu    sync.Mutex
	cache []D
}

func NewController[W, D any](
	name string,
	gateway ports.ResourceGateway[W],
	session *SessionStore,
	mapping Mapping[W, D],
	idOf func(D) int64,
	log zerolog.Logger,
) *Controller[W, D] {
	return &Controller[W, D]{
		name:    name,
		gateway: gateway,
		session: session,
		mapping: mapping,
		idOf:    idOf,
		log:     log.With().Str("resource", name).Logger(),
	}
}

func (c *Controller[W, D]) Name() string { return c.name }

// List fetches the full collection and replaces the cache with it. The
// returned slice is a copy; concurrent List calls may race, in which case the
// last response to resolve wins the cache.
func (c *Controller[W, D]) List(ctx context.Context) ([]D, error) {
	epoch := c.session.Epoch()

	wires, err := c.gateway.List(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("list failed")
		return nil, err
	}

	records := make([]D, len(wires))
	for i, w := range wires {
		records[i] = c.mapping.ToDomain(w)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.Epoch() != epoch {
		return nil, nil
	}
	c.cache = records
	return append([]D(nil), records...), nil
}

// Create pre-checks required fields locally, then sends the record and
// appends the backend's canonical version to the cache.
func (c *Controller[W, D]) Create(ctx context.Context, input D) (D, error) {
	var zero D
	if err := c.checkRequired(input); err != nil {
		return zero, err
	}

	epoch := c.session.Epoch()

	created, err := c.gateway.Create(ctx, c.mapping.ToWire(input))
	if err != nil {
		c.log.Error().Err(err).Msg("create failed")
		return zero, err
	}
	record := c.mapping.ToDomain(created)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.Epoch() != epoch {
		return record, nil
	}
	c.cache = append(c.cache, record)
	return record, nil
}

// Update sends the record to the identified endpoint and replaces the cached
// record with the same id. An id absent from the cache is left alone — update
// never degrades into a create; callers wanting a fresh view re-List.
func (c *Controller[W, D]) Update(ctx context.Context, id int64, input D) (D, error) {
	var zero D
	if err := c.checkRequired(input); err != nil {
		return zero, err
	}

	epoch := c.session.Epoch()

	updated, err := c.gateway.Update(ctx, id, c.mapping.ToWire(input))
	if err != nil {
		c.log.Error().Err(err).Msg("update failed")
		return zero, err
	}
	record := c.mapping.ToDomain(updated)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.Epoch() != epoch {
		return record, nil
	}
	for i := range c.cache {
		if c.idOf(c.cache[i]) == id {
			c.cache[i] = record
			break
		}
	}
	return record, nil
}

// Remove deletes the identified record and drops exactly the cached record
// whose id matches.
func (c *Controller[W, D]) Remove(ctx context.Context, id int64) error {
	epoch := c.session.Epoch()

	if err := c.gateway.Delete(ctx, id); err != nil {
		c.log.Error().Err(err).Msg("delete failed")
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.Epoch() != epoch {
		return nil
	}
	kept := c.cache[:0]
	for _, rec := range c.cache {
		if c.idOf(rec) != id {
			kept = append(kept, rec)
		}
	}
	c.cache = kept
	return nil
}

// Cached returns a copy of the cache as of the last applied response.
func (c *Controller[W, D]) Cached() []D {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]D(nil), c.cache...)
}

func (c *Controller[W, D]) checkRequired(input D) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fieldError(fe))
		}
		return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}

// fieldError converts a single validation error into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
