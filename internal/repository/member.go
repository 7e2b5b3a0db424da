package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/plexo/gateway/internal/model"
)

const memberColumns = `id, created_at, updated_at, name, email, github_id, google_id, photo_url, role`

// MemberStore persists members. Emails are unique case-insensitively.
type MemberStore struct {
	db querier
}

func scanMember(row pgx.Row) (model.Member, error) {
	var m model.Member
	err := row.Scan(
		&m.ID,
		&m.CreatedAt,
		&m.UpdatedAt,
		&m.Name,
		&m.Email,
		&m.GithubID,
		&m.GoogleID,
		&m.PhotoURL,
		&m.Role,
	)
	return m, err
}

// Create inserts a member. Role defaults to "member".
func (s *MemberStore) Create(ctx context.Context, in model.CreateMemberInput) (model.Member, error) {
	query := `
		INSERT INTO members (name, email, github_id, google_id, photo_url, role)
		VALUES ($1, $2, $3, $4, $5, COALESCE(NULLIF($6, ''), 'member'))
		RETURNING ` + memberColumns

	m, err := scanMember(s.db.QueryRow(ctx, query,
		in.Name, in.Email, in.GithubID, in.GoogleID, in.PhotoURL, string(in.Role),
	))
	return m, mapError("create member", err)
}

func (s *MemberStore) Get(ctx context.Context, id uuid.UUID) (model.Member, error) {
	m, err := scanMember(s.db.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id))
	return m, mapError("get member", err)
}

func (s *MemberStore) List(ctx context.Context, q model.GetMembersInput) ([]model.Member, error) {
	var w where
	w.ilike("name", q.Name)
	if q.Email != nil {
		w.clauses = append(w.clauses, "lower(email) = lower("+w.arg(*q.Email)+")")
	}
	eqFilter(&w, "role", q.Role)

	rows, err := s.db.Query(ctx, w.build(`SELECT `+memberColumns+` FROM members`, q.Limit, q.Offset), w.args...)
	if err != nil {
		return nil, mapError("list members", err)
	}
	members, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Member, error) {
		return scanMember(row)
	})
	return members, mapError("list members", err)
}

func (s *MemberStore) Update(ctx context.Context, id uuid.UUID, in model.UpdateMemberInput) (model.Member, error) {
	query := `
		UPDATE members SET
			name       = COALESCE($2, name),
			email      = COALESCE($3, email),
			github_id  = COALESCE($4, github_id),
			google_id  = COALESCE($5, google_id),
			photo_url  = COALESCE($6, photo_url),
			role       = COALESCE($7, role),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + memberColumns

	m, err := scanMember(s.db.QueryRow(ctx, query,
		id, in.Name, in.Email, in.GithubID, in.GoogleID, in.PhotoURL, in.Role,
	))
	return m, mapError("update member", err)
}

// Delete removes a member. Owned tasks and projects block the delete with
// ErrInvalidReference; API keys are removed with the member.
func (s *MemberStore) Delete(ctx context.Context, id uuid.UUID) (model.Member, error) {
	m, err := scanMember(s.db.QueryRow(ctx, `DELETE FROM members WHERE id = $1 RETURNING `+memberColumns, id))
	return m, mapError("delete member", err)
}

// GetByEmail finds a member by email, case-insensitively.
func (s *MemberStore) GetByEmail(ctx context.Context, email string) (model.Member, error) {
	m, err := scanMember(s.db.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE lower(email) = lower($1)`, email))
	return m, mapError("get member by email", err)
}
