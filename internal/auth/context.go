package auth

import (
	"context"

	"github.com/plexo/gateway/internal/model"
)

type identityKey struct{}

// ContextWithIdentity stores the resolved caller in ctx.
func ContextWithIdentity(ctx context.Context, id model.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller resolved by the auth middleware.
// ok is false when the request was never authenticated.
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(model.Identity)
	if !ok || id.IsZero() {
		return model.Identity{}, false
	}
	return id, true
}
