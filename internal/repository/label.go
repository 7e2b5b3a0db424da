package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/plexo/gateway/internal/model"
)

const labelColumns = `id, created_at, updated_at, name, description, color`

// LabelStore persists labels. Names are unique.
type LabelStore struct {
	db querier
}

func scanLabel(row pgx.Row) (model.Label, error) {
	var l model.Label
	err := row.Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt, &l.Name, &l.Description, &l.Color)
	return l, err
}

func (s *LabelStore) Create(ctx context.Context, in model.CreateLabelInput) (model.Label, error) {
	query := `
		INSERT INTO labels (name, description, color)
		VALUES ($1, $2, $3)
		RETURNING ` + labelColumns

	l, err := scanLabel(s.db.QueryRow(ctx, query, in.Name, in.Description, in.Color))
	return l, mapError("create label", err)
}

func (s *LabelStore) Get(ctx context.Context, id uuid.UUID) (model.Label, error) {
	l, err := scanLabel(s.db.QueryRow(ctx, `SELECT `+labelColumns+` FROM labels WHERE id = $1`, id))
	return l, mapError("get label", err)
}

func (s *LabelStore) List(ctx context.Context, q model.GetLabelsInput) ([]model.Label, error) {
	var w where
	w.ilike("name", q.Name)

	rows, err := s.db.Query(ctx, w.build(`SELECT `+labelColumns+` FROM labels`, q.Limit, q.Offset), w.args...)
	if err != nil {
		return nil, mapError("list labels", err)
	}
	labels, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Label, error) {
		return scanLabel(row)
	})
	return labels, mapError("list labels", err)
}

func (s *LabelStore) Update(ctx context.Context, id uuid.UUID, in model.UpdateLabelInput) (model.Label, error) {
	query := `
		UPDATE labels SET
			name        = COALESCE($2, name),
			description = COALESCE($3, description),
			color       = COALESCE($4, color),
			updated_at  = now()
		WHERE id = $1
		RETURNING ` + labelColumns

	l, err := scanLabel(s.db.QueryRow(ctx, query, id, in.Name, in.Description, in.Color))
	return l, mapError("update label", err)
}

// Delete removes a label. Task label arrays are not rewritten.
func (s *LabelStore) Delete(ctx context.Context, id uuid.UUID) (model.Label, error) {
	l, err := scanLabel(s.db.QueryRow(ctx, `DELETE FROM labels WHERE id = $1 RETURNING `+labelColumns, id))
	return l, mapError("delete label", err)
}
