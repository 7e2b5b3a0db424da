package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/plexo/gateway/internal/model"
)

const teamColumns = `id, created_at, updated_at, name, owner_id, visibility, prefix`

// TeamStore persists teams. The owner is whatever the caller supplied.
type TeamStore struct {
	db querier
}

func scanTeam(row pgx.Row) (model.Team, error) {
	var t model.Team
	err := row.Scan(
		&t.ID,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.Name,
		&t.OwnerID,
		&t.Visibility,
		&t.Prefix,
	)
	return t, err
}

func (s *TeamStore) Create(ctx context.Context, in model.CreateTeamInput) (model.Team, error) {
	query := `
		INSERT INTO teams (name, owner_id, visibility, prefix)
		VALUES ($1, $2, COALESCE(NULLIF($3, ''), 'none'), $4)
		RETURNING ` + teamColumns

	t, err := scanTeam(s.db.QueryRow(ctx, query, in.Name, in.OwnerID, string(in.Visibility), in.Prefix))
	return t, mapError("create team", err)
}

func (s *TeamStore) Get(ctx context.Context, id uuid.UUID) (model.Team, error) {
	t, err := scanTeam(s.db.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id))
	return t, mapError("get team", err)
}

func (s *TeamStore) List(ctx context.Context, q model.GetTeamsInput) ([]model.Team, error) {
	var w where
	w.ilike("name", q.Name)
	eqFilter(&w, "owner_id", q.OwnerID)
	eqFilter(&w, "visibility", q.Visibility)

	rows, err := s.db.Query(ctx, w.build(`SELECT `+teamColumns+` FROM teams`, q.Limit, q.Offset), w.args...)
	if err != nil {
		return nil, mapError("list teams", err)
	}
	teams, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Team, error) {
		return scanTeam(row)
	})
	return teams, mapError("list teams", err)
}

func (s *TeamStore) Update(ctx context.Context, id uuid.UUID, in model.UpdateTeamInput) (model.Team, error) {
	query := `
		UPDATE teams SET
			name       = COALESCE($2, name),
			owner_id   = COALESCE($3, owner_id),
			visibility = COALESCE($4, visibility),
			prefix     = COALESCE($5, prefix),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + teamColumns

	t, err := scanTeam(s.db.QueryRow(ctx, query, id, in.Name, in.OwnerID, in.Visibility, in.Prefix))
	return t, mapError("update team", err)
}

func (s *TeamStore) Delete(ctx context.Context, id uuid.UUID) (model.Team, error) {
	t, err := scanTeam(s.db.QueryRow(ctx, `DELETE FROM teams WHERE id = $1 RETURNING `+teamColumns, id))
	return t, mapError("delete team", err)
}
