package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plexo/gateway/internal/auth"
)

func TestIntegrationAPIKeys_IssueValidateRevoke(t *testing.T) {
	ctx, repo := newTestRepository(t)
	member := createMember(t, ctx, repo)

	issued, err := auth.IssueAPIKey(ctx, repo, member.ID, "ci", auth.EnvTest)
	require.NoError(t, err)

	stored, err := repo.GetAPIKeyByID(ctx, issued.ID)
	require.NoError(t, err)
	assert.Equal(t, member.ID, stored.MemberID)
	assert.Equal(t, "ci", stored.Name)
	assert.NotEqual(t, issued.Key, stored.KeyHash)

	validator := auth.NewKeyValidator(repo)
	identity, err := validator.Validate(ctx, issued.Key)
	require.NoError(t, err)
	assert.Equal(t, member.ID, identity.MemberID)
	assert.Equal(t, issued.ID, identity.KeyID)

	keys, err := repo.ListAPIKeysByMember(ctx, member.ID)
	require.NoError(t, err)
	assert.Len(t, keys, 1)

	require.NoError(t, repo.RevokeAPIKey(ctx, issued.ID))
	assert.ErrorIs(t, repo.RevokeAPIKey(ctx, issued.ID), ErrAPIKeyNotFound)

	_, err = validator.Validate(ctx, issued.Key)
	assert.ErrorIs(t, err, auth.ErrUnknownKey)
}

func TestIntegrationAPIKeys_DeletedMemberLosesAccess(t *testing.T) {
	ctx, repo := newTestRepository(t)
	member := createMember(t, ctx, repo)

	issued, err := auth.IssueAPIKey(ctx, repo, member.ID, "", auth.EnvLive)
	require.NoError(t, err)

	_, err = repo.Members().Delete(ctx, member.ID)
	require.NoError(t, err)

	_, err = auth.NewKeyValidator(repo).Validate(ctx, issued.Key)
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestIntegrationAPIKeys_UnknownID(t *testing.T) {
	ctx, repo := newTestRepository(t)

	_, err := repo.GetAPIKeyByID(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ")
	assert.ErrorIs(t, err, ErrAPIKeyNotFound)
}
