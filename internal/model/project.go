package model

import (
	"time"

	"github.com/google/uuid"
)

// Project groups tasks. Like tasks, projects are owned by their creator.
type Project struct {
	ID          uuid.UUID  `json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Name        string     `json:"name"`
	Prefix      *string    `json:"prefix,omitempty"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Description *string    `json:"description,omitempty"`
	LeadID      *uuid.UUID `json:"lead_id,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// CreateProjectInput holds the fields a caller may set on a new project.
type CreateProjectInput struct {
	Name        string     `json:"name" validate:"required,max=256"`
	Prefix      *string    `json:"prefix,omitempty" validate:"omitempty,max=16"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Description *string    `json:"description,omitempty"`
	LeadID      *uuid.UUID `json:"lead_id,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// AssignOwner sets the owner of the project being created.
func (in *CreateProjectInput) AssignOwner(memberID uuid.UUID) {
	in.OwnerID = memberID
}

// UpdateProjectInput is a partial update; nil fields are left unchanged.
type UpdateProjectInput struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,min=1,max=256"`
	Prefix      *string    `json:"prefix,omitempty" validate:"omitempty,max=16"`
	Description *string    `json:"description,omitempty"`
	LeadID      *uuid.UUID `json:"lead_id,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// GetProjectsInput filters a project listing.
type GetProjectsInput struct {
	OwnerID *uuid.UUID `json:"owner_id,omitempty"`
	LeadID  *uuid.UUID `json:"lead_id,omitempty"`
	Name    *string    `json:"name,omitempty"`
	Limit   int        `json:"limit,omitempty" validate:"gte=0"`
	Offset  int        `json:"offset,omitempty" validate:"gte=0"`
}
