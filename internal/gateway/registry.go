package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/plexo/gateway/internal/model"
)

// Registry errors.
var (
	ErrDuplicateKind    = errors.New("kind registered twice")
	ErrInvalidKind      = errors.New("unknown kind")
	ErrMissingEngine    = errors.New("no engine operations")
	ErrOwnerNotSettable = errors.New("owned kind has no settable owner")
)

// Contract is one registry row: a kind, its ownership flag and the engine
// operations it dispatches to.
type Contract interface {
	Kind() model.Kind
	Ownership() Ownership
	mount(r chi.Router, d *Dispatcher)
	validate() error
}

// Resource binds a kind's typed engine operations to the uniform operation
// set. Every method checks the caller first and never reaches the engine for
// an anonymous one.
type Resource[E, C, U, Q any] struct {
	kind      model.Kind
	ownership Ownership
	ops       EngineOperations[E, C, U, Q]
}

// NewResource creates a registry row for kind.
func NewResource[E, C, U, Q any](kind model.Kind, ownership Ownership, ops EngineOperations[E, C, U, Q]) *Resource[E, C, U, Q] {
	return &Resource[E, C, U, Q]{kind: kind, ownership: ownership, ops: ops}
}

// Kind returns the resource kind.
func (res *Resource[E, C, U, Q]) Kind() model.Kind { return res.kind }

// Ownership returns whether the kind is owned.
func (res *Resource[E, C, U, Q]) Ownership() Ownership { return res.ownership }

func (res *Resource[E, C, U, Q]) validate() error {
	if !res.kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, res.kind)
	}
	if res.ops == nil {
		return fmt.Errorf("%w: %s", ErrMissingEngine, res.kind)
	}
	if res.ownership == Owned && !canCarryOwner[C]() {
		return fmt.Errorf("%w: %s", ErrOwnerNotSettable, res.kind)
	}
	return nil
}

// Create forwards input to the engine, with the owner replaced by the caller
// for owned kinds.
func (res *Resource[E, C, U, Q]) Create(ctx context.Context, caller model.Identity, input C) Response[E] {
	if caller.IsZero() {
		return unauthorized[E](res.kind, OpCreate)
	}
	input = ApplyOwnership(res.ownership, input, caller)
	entity, err := res.ops.Create(ctx, input)
	return Shape(res.kind, OpCreate, entity, err)
}

// Get fetches one entity. A missing entity is reported by the engine like any
// other failure.
func (res *Resource[E, C, U, Q]) Get(ctx context.Context, caller model.Identity, id uuid.UUID) Response[E] {
	if caller.IsZero() {
		return unauthorized[E](res.kind, OpGetOne)
	}
	entity, err := res.ops.Get(ctx, id)
	return Shape(res.kind, OpGetOne, entity, err)
}

// List returns the entities matching query in engine order.
func (res *Resource[E, C, U, Q]) List(ctx context.Context, caller model.Identity, query Q) Response[[]E] {
	if caller.IsZero() {
		return unauthorized[[]E](res.kind, OpGetMany)
	}
	entities, err := res.ops.List(ctx, query)
	return ShapeList(res.kind, OpGetMany, entities, err)
}

// Update applies a partial update.
func (res *Resource[E, C, U, Q]) Update(ctx context.Context, caller model.Identity, id uuid.UUID, input U) Response[E] {
	if caller.IsZero() {
		return unauthorized[E](res.kind, OpUpdate)
	}
	entity, err := res.ops.Update(ctx, id, input)
	return Shape(res.kind, OpUpdate, entity, err)
}

// Delete removes an entity and returns its last state.
func (res *Resource[E, C, U, Q]) Delete(ctx context.Context, caller model.Identity, id uuid.UUID) Response[E] {
	if caller.IsZero() {
		return unauthorized[E](res.kind, OpDelete)
	}
	entity, err := res.ops.Delete(ctx, id)
	return Shape(res.kind, OpDelete, entity, err)
}

// Registry is the table of served kinds.
type Registry struct {
	contracts []Contract
	byKind    map[model.Kind]Contract
}

// NewRegistry validates the rows and builds a registry in the given order.
func NewRegistry(contracts ...Contract) (*Registry, error) {
	reg := &Registry{byKind: make(map[model.Kind]Contract, len(contracts))}
	for _, c := range contracts {
		if err := c.validate(); err != nil {
			return nil, err
		}
		if _, ok := reg.byKind[c.Kind()]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKind, c.Kind())
		}
		reg.byKind[c.Kind()] = c
		reg.contracts = append(reg.contracts, c)
	}
	return reg, nil
}

// DefaultRegistry registers the five Plexo kinds. Tasks and projects are owned.
func DefaultRegistry(e Engine) (*Registry, error) {
	return NewRegistry(
		NewResource(model.KindTask, Owned, e.Tasks()),
		NewResource(model.KindProject, Owned, e.Projects()),
		NewResource(model.KindMember, Unowned, e.Members()),
		NewResource(model.KindTeam, Unowned, e.Teams()),
		NewResource(model.KindLabel, Unowned, e.Labels()),
	)
}

// Contracts returns the rows in registration order.
func (reg *Registry) Contracts() []Contract {
	out := make([]Contract, len(reg.contracts))
	copy(out, reg.contracts)
	return out
}

// Lookup returns the row for kind.
func (reg *Registry) Lookup(kind model.Kind) (Contract, bool) {
	c, ok := reg.byKind[kind]
	return c, ok
}

// IsOwned reports whether kind is registered as owned.
func (reg *Registry) IsOwned(kind model.Kind) bool {
	c, ok := reg.byKind[kind]
	return ok && c.Ownership() == Owned
}

// OperationIDs lists every endpoint id the registry serves.
func (reg *Registry) OperationIDs() []string {
	ids := make([]string, 0, len(reg.contracts)*len(AllOperations))
	for _, c := range reg.contracts {
		for _, op := range AllOperations {
			ids = append(ids, OperationID(c.Kind(), op))
		}
	}
	return ids
}

// Mount registers five routes per kind under /{kind}s.
func (reg *Registry) Mount(r chi.Router, d *Dispatcher) {
	for _, c := range reg.contracts {
		c.mount(r, d)
	}
}
