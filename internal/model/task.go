package model

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskStatusNone       TaskStatus = "none"
	TaskStatusBacklog    TaskStatus = "backlog"
	TaskStatusToDo       TaskStatus = "to-do"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusCanceled   TaskStatus = "canceled"
)

// TaskPriority ranks a task.
type TaskPriority string

const (
	TaskPriorityNone   TaskPriority = "none"
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// Task is a unit of work, owned by the member who created it.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Title       string       `json:"title"`
	Description *string      `json:"description,omitempty"`
	OwnerID     uuid.UUID    `json:"owner_id"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	ProjectID   *uuid.UUID   `json:"project_id,omitempty"`
	LeadID      *uuid.UUID   `json:"lead_id,omitempty"`
	ParentID    *uuid.UUID   `json:"parent_id,omitempty"`
	Labels      []uuid.UUID  `json:"labels"`
	Assignees   []uuid.UUID  `json:"assignees"`
}

// CreateTaskInput holds the fields a caller may set on a new task.
// OwnerID is always replaced with the authenticated member before dispatch.
type CreateTaskInput struct {
	Title       string       `json:"title" validate:"required,max=512"`
	Description *string      `json:"description,omitempty"`
	OwnerID     uuid.UUID    `json:"owner_id"`
	Status      TaskStatus   `json:"status,omitempty" validate:"omitempty,oneof=none backlog to-do in-progress done canceled"`
	Priority    TaskPriority `json:"priority,omitempty" validate:"omitempty,oneof=none low medium high urgent"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	ProjectID   *uuid.UUID   `json:"project_id,omitempty"`
	LeadID      *uuid.UUID   `json:"lead_id,omitempty"`
	ParentID    *uuid.UUID   `json:"parent_id,omitempty"`
	Labels      []uuid.UUID  `json:"labels,omitempty"`
	Assignees   []uuid.UUID  `json:"assignees,omitempty"`
}

// AssignOwner sets the owner of the task being created.
func (in *CreateTaskInput) AssignOwner(memberID uuid.UUID) {
	in.OwnerID = memberID
}

// UpdateTaskInput is a partial update; nil fields are left unchanged.
type UpdateTaskInput struct {
	Title       *string       `json:"title,omitempty" validate:"omitempty,min=1,max=512"`
	Description *string       `json:"description,omitempty"`
	Status      *TaskStatus   `json:"status,omitempty" validate:"omitempty,oneof=none backlog to-do in-progress done canceled"`
	Priority    *TaskPriority `json:"priority,omitempty" validate:"omitempty,oneof=none low medium high urgent"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
	ProjectID   *uuid.UUID    `json:"project_id,omitempty"`
	LeadID      *uuid.UUID    `json:"lead_id,omitempty"`
	ParentID    *uuid.UUID    `json:"parent_id,omitempty"`
	Labels      *[]uuid.UUID  `json:"labels,omitempty"`
	Assignees   *[]uuid.UUID  `json:"assignees,omitempty"`
}

// GetTasksInput filters a task listing. Zero fields match everything.
type GetTasksInput struct {
	OwnerID   *uuid.UUID    `json:"owner_id,omitempty"`
	ProjectID *uuid.UUID    `json:"project_id,omitempty"`
	LeadID    *uuid.UUID    `json:"lead_id,omitempty"`
	ParentID  *uuid.UUID    `json:"parent_id,omitempty"`
	Status    *TaskStatus   `json:"status,omitempty" validate:"omitempty,oneof=none backlog to-do in-progress done canceled"`
	Priority  *TaskPriority `json:"priority,omitempty" validate:"omitempty,oneof=none low medium high urgent"`
	Limit     int           `json:"limit,omitempty" validate:"gte=0"`
	Offset    int           `json:"offset,omitempty" validate:"gte=0"`
}
