package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/plexo/gateway/internal/model"
)

const taskColumns = `id, created_at, updated_at, title, description, owner_id, status, priority,
	due_date, project_id, lead_id, parent_id, labels::text[], assignees::text[]`

// TaskStore persists tasks.
type TaskStore struct {
	db querier
}

func scanTask(row pgx.Row) (model.Task, error) {
	var t model.Task
	err := row.Scan(
		&t.ID,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.Title,
		&t.Description,
		&t.OwnerID,
		&t.Status,
		&t.Priority,
		&t.DueDate,
		&t.ProjectID,
		&t.LeadID,
		&t.ParentID,
		scanUUIDs(&t.Labels),
		scanUUIDs(&t.Assignees),
	)
	return t, err
}

// Create inserts a task. Status and priority default to "none".
func (s *TaskStore) Create(ctx context.Context, in model.CreateTaskInput) (model.Task, error) {
	query := `
		INSERT INTO tasks (title, description, owner_id, status, priority, due_date,
			project_id, lead_id, parent_id, labels, assignees)
		VALUES ($1, $2, $3, COALESCE(NULLIF($4, ''), 'none'), COALESCE(NULLIF($5, ''), 'none'), $6,
			$7, $8, $9, $10::text[]::uuid[], $11::text[]::uuid[])
		RETURNING ` + taskColumns

	t, err := scanTask(s.db.QueryRow(ctx, query,
		in.Title,
		in.Description,
		in.OwnerID,
		string(in.Status),
		string(in.Priority),
		in.DueDate,
		in.ProjectID,
		in.LeadID,
		in.ParentID,
		uuidArray(in.Labels),
		uuidArray(in.Assignees),
	))
	return t, mapError("create task", err)
}

// Get returns one task.
func (s *TaskStore) Get(ctx context.Context, id uuid.UUID) (model.Task, error) {
	t, err := scanTask(s.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	return t, mapError("get task", err)
}

// List returns tasks matching every set filter.
func (s *TaskStore) List(ctx context.Context, q model.GetTasksInput) ([]model.Task, error) {
	var w where
	eqFilter(&w, "owner_id", q.OwnerID)
	eqFilter(&w, "project_id", q.ProjectID)
	eqFilter(&w, "lead_id", q.LeadID)
	eqFilter(&w, "parent_id", q.ParentID)
	eqFilter(&w, "status", q.Status)
	eqFilter(&w, "priority", q.Priority)

	rows, err := s.db.Query(ctx, w.build(`SELECT `+taskColumns+` FROM tasks`, q.Limit, q.Offset), w.args...)
	if err != nil {
		return nil, mapError("list tasks", err)
	}
	tasks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Task, error) {
		return scanTask(row)
	})
	return tasks, mapError("list tasks", err)
}

// Update sets the fields present in in and bumps updated_at.
func (s *TaskStore) Update(ctx context.Context, id uuid.UUID, in model.UpdateTaskInput) (model.Task, error) {
	query := `
		UPDATE tasks SET
			title       = COALESCE($2, title),
			description = COALESCE($3, description),
			status      = COALESCE($4, status),
			priority    = COALESCE($5, priority),
			due_date    = COALESCE($6, due_date),
			project_id  = COALESCE($7, project_id),
			lead_id     = COALESCE($8, lead_id),
			parent_id   = COALESCE($9, parent_id),
			labels      = COALESCE($10::text[]::uuid[], labels),
			assignees   = COALESCE($11::text[]::uuid[], assignees),
			updated_at  = now()
		WHERE id = $1
		RETURNING ` + taskColumns

	t, err := scanTask(s.db.QueryRow(ctx, query,
		id,
		in.Title,
		in.Description,
		in.Status,
		in.Priority,
		in.DueDate,
		in.ProjectID,
		in.LeadID,
		in.ParentID,
		optionalUUIDArray(in.Labels),
		optionalUUIDArray(in.Assignees),
	))
	return t, mapError("update task", err)
}

// Delete removes a task and returns the row as it was.
func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) (model.Task, error) {
	t, err := scanTask(s.db.QueryRow(ctx, `DELETE FROM tasks WHERE id = $1 RETURNING `+taskColumns, id))
	return t, mapError("delete task", err)
}
