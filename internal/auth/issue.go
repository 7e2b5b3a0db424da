package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/plexo/gateway/internal/model"
)

// KeyWriter persists a newly issued key.
type KeyWriter interface {
	CreateAPIKey(ctx context.Context, key *model.APIKey) error
}

// IssueAPIKey generates a key for memberID, stores its hash and returns the
// plaintext. The plaintext is not recoverable afterwards.
func IssueAPIKey(ctx context.Context, w KeyWriter, memberID uuid.UUID, name, env string) (*model.APIKeyCreateResponse, error) {
	return issueAPIKey(ctx, w, memberID, name, env, DefaultHashParams)
}

func issueAPIKey(ctx context.Context, w KeyWriter, memberID uuid.UUID, name, env string, params HashParams) (*model.APIKeyCreateResponse, error) {
	if memberID == uuid.Nil {
		return nil, fmt.Errorf("issue API key: member id is required")
	}

	generated, err := generateAPIKey(env, params)
	if err != nil {
		return nil, fmt.Errorf("issue API key: %w", err)
	}

	key := &model.APIKey{
		ID:        generated.ID,
		MemberID:  memberID,
		KeyHash:   generated.Hash,
		KeyPrefix: generated.Prefix,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := w.CreateAPIKey(ctx, key); err != nil {
		return nil, fmt.Errorf("issue API key: %w", err)
	}

	return &model.APIKeyCreateResponse{
		ID:        key.ID,
		Key:       generated.Plaintext,
		MemberID:  memberID,
		Name:      name,
		KeyPrefix: key.KeyPrefix,
		CreatedAt: key.CreatedAt,
	}, nil
}
