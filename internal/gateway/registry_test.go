package gateway

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plexo/gateway/internal/model"
)

func TestDefaultRegistry(t *testing.T) {
	reg, err := DefaultRegistry(newFakeEngine())
	require.NoError(t, err)

	var kinds []model.Kind
	for _, c := range reg.Contracts() {
		kinds = append(kinds, c.Kind())
	}
	assert.Equal(t, model.Kinds, kinds)

	assert.True(t, reg.IsOwned(model.KindTask))
	assert.True(t, reg.IsOwned(model.KindProject))
	assert.False(t, reg.IsOwned(model.KindMember))
	assert.False(t, reg.IsOwned(model.KindTeam))
	assert.False(t, reg.IsOwned(model.KindLabel))
	assert.False(t, reg.IsOwned(model.Kind("comment")))

	_, ok := reg.Lookup(model.KindLabel)
	assert.True(t, ok)
	_, ok = reg.Lookup(model.Kind("comment"))
	assert.False(t, ok)

	ids := reg.OperationIDs()
	assert.Len(t, ids, 25)
	assert.Contains(t, ids, "create_task")
	assert.Contains(t, ids, "get_projects")
	assert.Contains(t, ids, "delete_label")
}

func TestNewRegistryRejectsBadRows(t *testing.T) {
	engine := newFakeEngine()

	tests := []struct {
		name      string
		contracts []Contract
		want      error
	}{
		{
			name: "duplicate kind",
			contracts: []Contract{
				NewResource(model.KindLabel, Unowned, engine.Labels()),
				NewResource(model.KindLabel, Unowned, engine.Labels()),
			},
			want: ErrDuplicateKind,
		},
		{
			name:      "unknown kind",
			contracts: []Contract{NewResource(model.Kind("comment"), Unowned, engine.Labels())},
			want:      ErrInvalidKind,
		},
		{
			name:      "owned kind without owner field",
			contracts: []Contract{NewResource(model.KindLabel, Owned, engine.Labels())},
			want:      ErrOwnerNotSettable,
		},
		{
			name: "missing engine",
			contracts: []Contract{
				NewResource[model.Team, model.CreateTeamInput, model.UpdateTeamInput, model.GetTeamsInput](model.KindTeam, Unowned, nil),
			},
			want: ErrMissingEngine,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := NewRegistry(tt.contracts...)
			assert.Nil(t, reg)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestResourceRejectsZeroIdentity(t *testing.T) {
	engine := newFakeEngine()
	res := NewResource(model.KindTask, Owned, engine.Tasks())
	ctx := context.Background()
	id := uuid.New()

	assert.Equal(t, FailureUnauthorized, res.Create(ctx, model.Identity{}, model.CreateTaskInput{Title: "x"}).Failure.Kind)
	assert.Equal(t, FailureUnauthorized, res.Get(ctx, model.Identity{}, id).Failure.Kind)
	assert.Equal(t, FailureUnauthorized, res.List(ctx, model.Identity{}, model.GetTasksInput{}).Failure.Kind)
	assert.Equal(t, FailureUnauthorized, res.Update(ctx, model.Identity{}, id, model.UpdateTaskInput{}).Failure.Kind)
	assert.Equal(t, FailureUnauthorized, res.Delete(ctx, model.Identity{}, id).Failure.Kind)
	assert.Empty(t, engine.log.all())
}

func TestResourceCreateOwnership(t *testing.T) {
	engine := newFakeEngine()
	caller := model.Identity{MemberID: uuid.New(), KeyID: "k"}
	forged := uuid.New()

	resp := NewResource(model.KindProject, Owned, engine.Projects()).
		Create(context.Background(), caller, model.CreateProjectInput{Name: "p", OwnerID: forged})
	require.True(t, resp.OK())

	teamOwner := forged
	resp2 := NewResource(model.KindTeam, Unowned, engine.Teams()).
		Create(context.Background(), caller, model.CreateTeamInput{Name: "t", OwnerID: &teamOwner})
	require.True(t, resp2.OK())

	calls := engine.log.all()
	require.Len(t, calls, 2)
	assert.Equal(t, caller.MemberID, calls[0].Input.(model.CreateProjectInput).OwnerID)
	assert.Equal(t, forged, *calls[1].Input.(model.CreateTeamInput).OwnerID)
}

func TestShape(t *testing.T) {
	resp := Shape(model.KindTask, OpGetOne, model.Task{Title: "a"}, nil)
	assert.True(t, resp.OK())
	assert.Equal(t, http.StatusOK, resp.Status)

	engineErr := errors.New("no rows")
	resp = Shape(model.KindTask, OpGetOne, model.Task{}, engineErr)
	require.False(t, resp.OK())
	assert.Equal(t, FailureEngine, resp.Failure.Kind)
	assert.Equal(t, http.StatusInternalServerError, resp.Failure.Status())
	assert.ErrorIs(t, resp.Failure, engineErr)
	assert.Equal(t, "get task failed", resp.Failure.Message())

	list := ShapeList[model.Label](model.KindLabel, OpGetMany, nil, nil)
	assert.NotNil(t, list.Body)
	assert.Empty(t, list.Body)

	failed := ShapeList[model.Label](model.KindLabel, OpGetMany, nil, engineErr)
	assert.Nil(t, failed.Body)
	assert.Equal(t, "get labels failed", failed.Failure.Message())
}

func TestOperationID(t *testing.T) {
	tests := []struct {
		kind model.Kind
		op   Operation
		want string
	}{
		{model.KindTask, OpCreate, "create_task"},
		{model.KindTask, OpGetOne, "get_task"},
		{model.KindTask, OpGetMany, "get_tasks"},
		{model.KindProject, OpUpdate, "update_project"},
		{model.KindMember, OpDelete, "delete_member"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OperationID(tt.kind, tt.op))
	}
}
