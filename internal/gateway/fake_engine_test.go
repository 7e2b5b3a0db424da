package gateway

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/plexo/gateway/internal/model"
)

type engineCall struct {
	Kind  model.Kind
	Op    Operation
	ID    uuid.UUID
	Input any
}

type callLog struct {
	mu    sync.Mutex
	calls []engineCall
}

func (l *callLog) record(c engineCall) {
	l.mu.Lock()
	l.calls = append(l.calls, c)
	l.mu.Unlock()
}

func (l *callLog) all() []engineCall {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]engineCall, len(l.calls))
	copy(out, l.calls)
	return out
}

// fakeOps records every call and answers with canned values.
type fakeOps[E, C, U, Q any] struct {
	kind   model.Kind
	log    *callLog
	entity E
	list   []E
	err    error
}

func (f *fakeOps[E, C, U, Q]) Create(_ context.Context, input C) (E, error) {
	f.log.record(engineCall{Kind: f.kind, Op: OpCreate, Input: input})
	return f.entity, f.err
}

func (f *fakeOps[E, C, U, Q]) Get(_ context.Context, id uuid.UUID) (E, error) {
	f.log.record(engineCall{Kind: f.kind, Op: OpGetOne, ID: id})
	return f.entity, f.err
}

func (f *fakeOps[E, C, U, Q]) List(_ context.Context, query Q) ([]E, error) {
	f.log.record(engineCall{Kind: f.kind, Op: OpGetMany, Input: query})
	return f.list, f.err
}

func (f *fakeOps[E, C, U, Q]) Update(_ context.Context, id uuid.UUID, input U) (E, error) {
	f.log.record(engineCall{Kind: f.kind, Op: OpUpdate, ID: id, Input: input})
	return f.entity, f.err
}

func (f *fakeOps[E, C, U, Q]) Delete(_ context.Context, id uuid.UUID) (E, error) {
	f.log.record(engineCall{Kind: f.kind, Op: OpDelete, ID: id})
	return f.entity, f.err
}

type fakeEngine struct {
	log      *callLog
	tasks    *fakeOps[model.Task, model.CreateTaskInput, model.UpdateTaskInput, model.GetTasksInput]
	projects *fakeOps[model.Project, model.CreateProjectInput, model.UpdateProjectInput, model.GetProjectsInput]
	members  *fakeOps[model.Member, model.CreateMemberInput, model.UpdateMemberInput, model.GetMembersInput]
	teams    *fakeOps[model.Team, model.CreateTeamInput, model.UpdateTeamInput, model.GetTeamsInput]
	labels   *fakeOps[model.Label, model.CreateLabelInput, model.UpdateLabelInput, model.GetLabelsInput]
}

func newFakeEngine() *fakeEngine {
	log := &callLog{}
	return &fakeEngine{
		log:      log,
		tasks:    &fakeOps[model.Task, model.CreateTaskInput, model.UpdateTaskInput, model.GetTasksInput]{kind: model.KindTask, log: log},
		projects: &fakeOps[model.Project, model.CreateProjectInput, model.UpdateProjectInput, model.GetProjectsInput]{kind: model.KindProject, log: log},
		members:  &fakeOps[model.Member, model.CreateMemberInput, model.UpdateMemberInput, model.GetMembersInput]{kind: model.KindMember, log: log},
		teams:    &fakeOps[model.Team, model.CreateTeamInput, model.UpdateTeamInput, model.GetTeamsInput]{kind: model.KindTeam, log: log},
		labels:   &fakeOps[model.Label, model.CreateLabelInput, model.UpdateLabelInput, model.GetLabelsInput]{kind: model.KindLabel, log: log},
	}
}

func (f *fakeEngine) Tasks() EngineOperations[model.Task, model.CreateTaskInput, model.UpdateTaskInput, model.GetTasksInput] {
	return f.tasks
}

func (f *fakeEngine) Projects() EngineOperations[model.Project, model.CreateProjectInput, model.UpdateProjectInput, model.GetProjectsInput] {
	return f.projects
}

func (f *fakeEngine) Members() EngineOperations[model.Member, model.CreateMemberInput, model.UpdateMemberInput, model.GetMembersInput] {
	return f.members
}

func (f *fakeEngine) Teams() EngineOperations[model.Team, model.CreateTeamInput, model.UpdateTeamInput, model.GetTeamsInput] {
	return f.teams
}

func (f *fakeEngine) Labels() EngineOperations[model.Label, model.CreateLabelInput, model.UpdateLabelInput, model.GetLabelsInput] {
	return f.labels
}
