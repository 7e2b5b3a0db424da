// Package repository is the Postgres engine behind the gateway: one store per
// entity kind plus the API key directory.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plexo/gateway/internal/gateway"
	"github.com/plexo/gateway/internal/model"
)

// querier is satisfied by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository provides database access methods.
type Repository struct {
	pool *pgxpool.Pool

	tasks    *TaskStore
	projects *ProjectStore
	members  *MemberStore
	teams    *TeamStore
	labels   *LabelStore
}

var _ gateway.Engine = (*Repository)(nil)

// New creates a new Repository with a connection pool.
func New(ctx context.Context, databaseURL string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewWithPool(pool), nil
}

// NewWithPool wraps an existing pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		pool:     pool,
		tasks:    &TaskStore{db: pool},
		projects: &ProjectStore{db: pool},
		members:  &MemberStore{db: pool},
		teams:    &TeamStore{db: pool},
		labels:   &LabelStore{db: pool},
	}
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (r *Repository) Close() {
	r.pool.Close()
}

// Pool returns the underlying connection pool.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

func (r *Repository) Tasks() gateway.EngineOperations[model.Task, model.CreateTaskInput, model.UpdateTaskInput, model.GetTasksInput] {
	return r.tasks
}

func (r *Repository) Projects() gateway.EngineOperations[model.Project, model.CreateProjectInput, model.UpdateProjectInput, model.GetProjectsInput] {
	return r.projects
}

func (r *Repository) Members() gateway.EngineOperations[model.Member, model.CreateMemberInput, model.UpdateMemberInput, model.GetMembersInput] {
	return r.members
}

func (r *Repository) Teams() gateway.EngineOperations[model.Team, model.CreateTeamInput, model.UpdateTeamInput, model.GetTeamsInput] {
	return r.teams
}

func (r *Repository) Labels() gateway.EngineOperations[model.Label, model.CreateLabelInput, model.UpdateLabelInput, model.GetLabelsInput] {
	return r.labels
}

// MemberStore returns the concrete member store, used by admin tooling.
func (r *Repository) MemberStore() *MemberStore {
	return r.members
}
