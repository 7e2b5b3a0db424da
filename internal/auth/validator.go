package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/plexo/gateway/internal/model"
)

// ErrUnauthorized is the root of every credential failure.
var ErrUnauthorized = errors.New("unauthorized")

// Credential failures. All of them match ErrUnauthorized with errors.Is.
var (
	ErrMissingKey   = fmt.Errorf("%w: missing key", ErrUnauthorized)
	ErrMalformedKey = fmt.Errorf("%w: malformed key", ErrUnauthorized)
	ErrUnknownKey   = fmt.Errorf("%w: unknown key", ErrUnauthorized)
)

// CredentialValidator resolves an API key to the calling member.
type CredentialValidator interface {
	Validate(ctx context.Context, apiKey string) (model.Identity, error)
}

// KeyStore looks up candidate keys. Implementations must only return keys
// that are not revoked and whose member still exists.
type KeyStore interface {
	ActiveAPIKeysByPrefix(ctx context.Context, prefix string) ([]*model.APIKey, error)
}

// KeyValidator validates plx_ keys against a KeyStore.
type KeyValidator struct {
	store KeyStore
}

// NewKeyValidator creates a KeyValidator.
func NewKeyValidator(store KeyStore) *KeyValidator {
	return &KeyValidator{store: store}
}

// Validate parses key, finds the stored hash by prefix and verifies it.
// Prefix collisions are handled by trying every candidate.
func (v *KeyValidator) Validate(ctx context.Context, key string) (model.Identity, error) {
	if key == "" {
		return model.Identity{}, ErrMissingKey
	}

	parsed, err := ParseAPIKey(key)
	if err != nil {
		return model.Identity{}, ErrMalformedKey
	}

	candidates, err := v.store.ActiveAPIKeysByPrefix(ctx, parsed.Prefix)
	if err != nil {
		return model.Identity{}, fmt.Errorf("%w: key lookup: %w", ErrUnauthorized, err)
	}

	for _, c := range candidates {
		ok, err := VerifyKey(key, c.KeyHash)
		if err != nil || !ok {
			continue
		}
		return model.Identity{
			MemberID:  c.MemberID,
			KeyID:     c.ID,
			KeyPrefix: c.KeyPrefix,
		}, nil
	}

	return model.Identity{}, ErrUnknownKey
}

// FailureReason returns a short log label for a Validate error.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, ErrMissingKey):
		return "missing_key"
	case errors.Is(err, ErrMalformedKey):
		return "invalid_format"
	case errors.Is(err, ErrUnknownKey):
		return "invalid_key"
	case errors.Is(err, ErrUnauthorized):
		return "lookup_failed"
	default:
		return "unknown"
	}
}
