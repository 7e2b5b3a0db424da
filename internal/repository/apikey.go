package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/plexo/gateway/internal/model"
)

// ErrAPIKeyNotFound is returned when no key matches, or it is already revoked.
var ErrAPIKeyNotFound = errors.New("API key not found")

const apiKeyColumns = `k.id, k.member_id, k.key_hash, k.key_prefix, COALESCE(k.name, ''), k.revoked_at, k.last_used_at, k.created_at`

// CreateAPIKey inserts a new API key. The member must exist.
func (r *Repository) CreateAPIKey(ctx context.Context, key *model.APIKey) error {
	query := `
		INSERT INTO api_keys (id, member_id, key_hash, key_prefix, name, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
	`

	_, err := r.pool.Exec(ctx, query,
		key.ID,
		key.MemberID,
		key.KeyHash,
		key.KeyPrefix,
		key.Name,
		key.CreatedAt,
	)
	return mapError("create API key", err)
}

// GetAPIKeyByID retrieves an API key by its ID.
func (r *Repository) GetAPIKeyByID(ctx context.Context, id string) (*model.APIKey, error) {
	key, err := scanAPIKey(r.pool.QueryRow(ctx, `SELECT `+apiKeyColumns+` FROM api_keys k WHERE k.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAPIKeyNotFound
		}
		return nil, fmt.Errorf("failed to get API key: %w", err)
	}
	return key, nil
}

// ActiveAPIKeysByPrefix returns the unrevoked keys with prefix whose member
// still exists. Used during authentication to find candidates to verify.
func (r *Repository) ActiveAPIKeysByPrefix(ctx context.Context, prefix string) ([]*model.APIKey, error) {
	query := `
		SELECT ` + apiKeyColumns + `
		FROM api_keys k
		JOIN members m ON m.id = k.member_id
		WHERE k.key_prefix = $1 AND k.revoked_at IS NULL
	`

	return r.queryAPIKeys(ctx, query, prefix)
}

// ListAPIKeysByMember retrieves all keys of a member, newest first.
func (r *Repository) ListAPIKeysByMember(ctx context.Context, memberID uuid.UUID) ([]*model.APIKey, error) {
	query := `
		SELECT ` + apiKeyColumns + `
		FROM api_keys k
		WHERE k.member_id = $1
		ORDER BY k.created_at DESC
	`

	return r.queryAPIKeys(ctx, query, memberID)
}

// RevokeAPIKey revokes an API key by setting revoked_at.
func (r *Repository) RevokeAPIKey(ctx context.Context, id string) error {
	query := `
		UPDATE api_keys
		SET revoked_at = $2
		WHERE id = $1 AND revoked_at IS NULL
	`

	result, err := r.pool.Exec(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to revoke API key: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrAPIKeyNotFound
	}

	return nil
}

func (r *Repository) queryAPIKeys(ctx context.Context, query string, args ...any) ([]*model.APIKey, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query API keys: %w", err)
	}

	keys, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.APIKey, error) {
		return scanAPIKey(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan API keys: %w", err)
	}
	return keys, nil
}

func scanAPIKey(row pgx.Row) (*model.APIKey, error) {
	var key model.APIKey
	err := row.Scan(
		&key.ID,
		&key.MemberID,
		&key.KeyHash,
		&key.KeyPrefix,
		&key.Name,
		&key.RevokedAt,
		&key.LastUsedAt,
		&key.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &key, nil
}
