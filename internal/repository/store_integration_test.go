package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plexo/gateway/internal/model"
	"github.com/plexo/gateway/internal/testutil"
)

func newTestRepository(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	ctx, pool := testutil.NewPool(t)
	return ctx, NewWithPool(pool)
}

func createMember(t *testing.T, ctx context.Context, repo *Repository) model.Member {
	t.Helper()
	m, err := repo.Members().Create(ctx, model.CreateMemberInput{
		Name:  "Ada",
		Email: testutil.UniqueName("ada") + "@example.com",
	})
	require.NoError(t, err)
	return m
}

func TestIntegrationTaskStore_Lifecycle(t *testing.T) {
	ctx, repo := newTestRepository(t)
	owner := createMember(t, ctx, repo)

	label, err := repo.Labels().Create(ctx, model.CreateLabelInput{Name: "bug"})
	require.NoError(t, err)

	created, err := repo.Tasks().Create(ctx, model.CreateTaskInput{
		Title:     "write docs",
		OwnerID:   owner.ID,
		Labels:    []uuid.UUID{label.ID},
		Assignees: []uuid.UUID{owner.ID},
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, owner.ID, created.OwnerID)
	assert.Equal(t, model.TaskStatusNone, created.Status)
	assert.Equal(t, model.TaskPriorityNone, created.Priority)
	assert.Equal(t, []uuid.UUID{label.ID}, created.Labels)

	got, err := repo.Tasks().Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)

	status := model.TaskStatusInProgress
	updated, err := repo.Tasks().Update(ctx, created.ID, model.UpdateTaskInput{Status: &status, Labels: &[]uuid.UUID{}})
	require.NoError(t, err)
	assert.Equal(t, status, updated.Status)
	assert.Equal(t, "write docs", updated.Title)
	assert.Empty(t, updated.Labels)
	assert.True(t, !updated.UpdatedAt.Before(created.UpdatedAt))

	deleted, err := repo.Tasks().Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Equal(t, status, deleted.Status)

	_, err = repo.Tasks().Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Tasks().Delete(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIntegrationTaskStore_ListFiltersAndOrder(t *testing.T) {
	ctx, repo := newTestRepository(t)
	alice := createMember(t, ctx, repo)
	bob := createMember(t, ctx, repo)

	var aliceTasks []uuid.UUID
	for _, title := range []string{"one", "two", "three"} {
		task, err := repo.Tasks().Create(ctx, model.CreateTaskInput{Title: title, OwnerID: alice.ID})
		require.NoError(t, err)
		aliceTasks = append(aliceTasks, task.ID)
	}
	_, err := repo.Tasks().Create(ctx, model.CreateTaskInput{Title: "bob's", OwnerID: bob.ID, Priority: model.TaskPriorityHigh})
	require.NoError(t, err)

	all, err := repo.Tasks().List(ctx, model.GetTasksInput{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	mine, err := repo.Tasks().List(ctx, model.GetTasksInput{OwnerID: &alice.ID})
	require.NoError(t, err)
	require.Len(t, mine, 3)
	for i, task := range mine {
		assert.Equal(t, aliceTasks[i], task.ID)
	}

	high := model.TaskPriorityHigh
	urgent, err := repo.Tasks().List(ctx, model.GetTasksInput{OwnerID: &alice.ID, Priority: &high})
	require.NoError(t, err)
	assert.Empty(t, urgent)

	page, err := repo.Tasks().List(ctx, model.GetTasksInput{OwnerID: &alice.ID, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, aliceTasks[1], page[0].ID)
}

func TestIntegrationTaskStore_InvalidReference(t *testing.T) {
	ctx, repo := newTestRepository(t)

	_, err := repo.Tasks().Create(ctx, model.CreateTaskInput{Title: "orphan", OwnerID: uuid.New()})
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestIntegrationProjectStore_Lifecycle(t *testing.T) {
	ctx, repo := newTestRepository(t)
	owner := createMember(t, ctx, repo)

	p, err := repo.Projects().Create(ctx, model.CreateProjectInput{Name: "Gateway", OwnerID: owner.ID})
	require.NoError(t, err)

	name := "gate"
	found, err := repo.Projects().List(ctx, model.GetProjectsInput{Name: &name})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, p.ID, found[0].ID)

	desc := "HTTP surface"
	updated, err := repo.Projects().Update(ctx, p.ID, model.UpdateProjectInput{Description: &desc})
	require.NoError(t, err)
	require.NotNil(t, updated.Description)
	assert.Equal(t, desc, *updated.Description)

	deleted, err := repo.Projects().Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gateway", deleted.Name)
}

func TestIntegrationMemberStore_EmailUnique(t *testing.T) {
	ctx, repo := newTestRepository(t)
	m := createMember(t, ctx, repo)

	_, err := repo.Members().Create(ctx, model.CreateMemberInput{Name: "Dup", Email: m.Email})
	assert.ErrorIs(t, err, ErrConflict)

	got, err := repo.MemberStore().GetByEmail(ctx, m.Email)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, model.MemberRoleMember, got.Role)
}

func TestIntegrationTeamStore_OwnerIsStoredAsGiven(t *testing.T) {
	ctx, repo := newTestRepository(t)
	owner := createMember(t, ctx, repo)

	team, err := repo.Teams().Create(ctx, model.CreateTeamInput{Name: "core", OwnerID: &owner.ID})
	require.NoError(t, err)
	require.NotNil(t, team.OwnerID)
	assert.Equal(t, owner.ID, *team.OwnerID)
	assert.Equal(t, model.TeamVisibilityNone, team.Visibility)

	orphan, err := repo.Teams().Create(ctx, model.CreateTeamInput{Name: "nobody's"})
	require.NoError(t, err)
	assert.Nil(t, orphan.OwnerID)
}

func TestIntegrationLabelStore_EmptyListIsNotAnError(t *testing.T) {
	ctx, repo := newTestRepository(t)

	labels, err := repo.Labels().List(ctx, model.GetLabelsInput{})
	require.NoError(t, err)
	assert.Empty(t, labels)

	_, err = repo.Labels().Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
