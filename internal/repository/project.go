package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/plexo/gateway/internal/model"
)

const projectColumns = `id, created_at, updated_at, name, prefix, owner_id, description, lead_id, start_date, due_date`

// ProjectStore persists projects.
type ProjectStore struct {
	db querier
}

func scanProject(row pgx.Row) (model.Project, error) {
	var p model.Project
	err := row.Scan(
		&p.ID,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.Name,
		&p.Prefix,
		&p.OwnerID,
		&p.Description,
		&p.LeadID,
		&p.StartDate,
		&p.DueDate,
	)
	return p, err
}

func (s *ProjectStore) Create(ctx context.Context, in model.CreateProjectInput) (model.Project, error) {
	query := `
		INSERT INTO projects (name, prefix, owner_id, description, lead_id, start_date, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + projectColumns

	p, err := scanProject(s.db.QueryRow(ctx, query,
		in.Name, in.Prefix, in.OwnerID, in.Description, in.LeadID, in.StartDate, in.DueDate,
	))
	return p, mapError("create project", err)
}

func (s *ProjectStore) Get(ctx context.Context, id uuid.UUID) (model.Project, error) {
	p, err := scanProject(s.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	return p, mapError("get project", err)
}

func (s *ProjectStore) List(ctx context.Context, q model.GetProjectsInput) ([]model.Project, error) {
	var w where
	eqFilter(&w, "owner_id", q.OwnerID)
	eqFilter(&w, "lead_id", q.LeadID)
	w.ilike("name", q.Name)

	rows, err := s.db.Query(ctx, w.build(`SELECT `+projectColumns+` FROM projects`, q.Limit, q.Offset), w.args...)
	if err != nil {
		return nil, mapError("list projects", err)
	}
	projects, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Project, error) {
		return scanProject(row)
	})
	return projects, mapError("list projects", err)
}

func (s *ProjectStore) Update(ctx context.Context, id uuid.UUID, in model.UpdateProjectInput) (model.Project, error) {
	query := `
		UPDATE projects SET
			name        = COALESCE($2, name),
			prefix      = COALESCE($3, prefix),
			description = COALESCE($4, description),
			lead_id     = COALESCE($5, lead_id),
			start_date  = COALESCE($6, start_date),
			due_date    = COALESCE($7, due_date),
			updated_at  = now()
		WHERE id = $1
		RETURNING ` + projectColumns

	p, err := scanProject(s.db.QueryRow(ctx, query,
		id, in.Name, in.Prefix, in.Description, in.LeadID, in.StartDate, in.DueDate,
	))
	return p, mapError("update project", err)
}

func (s *ProjectStore) Delete(ctx context.Context, id uuid.UUID) (model.Project, error) {
	p, err := scanProject(s.db.QueryRow(ctx, `DELETE FROM projects WHERE id = $1 RETURNING `+projectColumns, id))
	return p, mapError("delete project", err)
}
