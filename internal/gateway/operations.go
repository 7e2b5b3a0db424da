// Package gateway exposes the engine's entity operations over HTTP.
//
// Every resource kind is described by one row of a Registry. The row binds the
// kind's input and entity types to the engine's five operations and says
// whether the kind is owned. All 25 endpoints are produced from those rows by
// the same generic dispatcher, so adding a kind never adds per-endpoint code.
package gateway

import (
	"context"

	"github.com/google/uuid"

	"github.com/plexo/gateway/internal/model"
)

// Operation names one of the five uniform operations.
type Operation string

const (
	OpCreate  Operation = "create"
	OpGetOne  Operation = "get_one"
	OpGetMany Operation = "get_many"
	OpUpdate  Operation = "update"
	OpDelete  Operation = "delete"
)

// AllOperations lists the operations in routing order.
var AllOperations = []Operation{OpCreate, OpGetOne, OpGetMany, OpUpdate, OpDelete}

// OperationID returns the stable endpoint id, e.g. create_task or get_tasks.
func OperationID(kind model.Kind, op Operation) string {
	switch op {
	case OpCreate:
		return "create_" + string(kind)
	case OpGetOne:
		return "get_" + string(kind)
	case OpGetMany:
		return "get_" + kind.Plural()
	case OpUpdate:
		return "update_" + string(kind)
	case OpDelete:
		return "delete_" + string(kind)
	default:
		return string(op) + "_" + string(kind)
	}
}

// EngineOperations is the engine contract for one kind.
// E is the entity, C/U/Q the create, update and query inputs.
// Delete returns the entity as it was immediately before removal.
type EngineOperations[E, C, U, Q any] interface {
	Create(ctx context.Context, input C) (E, error)
	Get(ctx context.Context, id uuid.UUID) (E, error)
	List(ctx context.Context, query Q) ([]E, error)
	Update(ctx context.Context, id uuid.UUID, input U) (E, error)
	Delete(ctx context.Context, id uuid.UUID) (E, error)
}

// Engine provides the operations for every kind the gateway serves.
type Engine interface {
	Tasks() EngineOperations[model.Task, model.CreateTaskInput, model.UpdateTaskInput, model.GetTasksInput]
	Projects() EngineOperations[model.Project, model.CreateProjectInput, model.UpdateProjectInput, model.GetProjectsInput]
	Members() EngineOperations[model.Member, model.CreateMemberInput, model.UpdateMemberInput, model.GetMembersInput]
	Teams() EngineOperations[model.Team, model.CreateTeamInput, model.UpdateTeamInput, model.GetTeamsInput]
	Labels() EngineOperations[model.Label, model.CreateLabelInput, model.UpdateLabelInput, model.GetLabelsInput]
}
