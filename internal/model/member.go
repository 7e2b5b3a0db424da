package model

import (
	"time"

	"github.com/google/uuid"
)

// MemberRole is the workspace role of a member.
type MemberRole string

const (
	MemberRoleAdmin    MemberRole = "admin"
	MemberRoleMember   MemberRole = "member"
	MemberRoleReadOnly MemberRole = "read-only"
)

// Member is a person in the workspace. API keys belong to members.
type Member struct {
	ID        uuid.UUID  `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	GithubID  *string    `json:"github_id,omitempty"`
	GoogleID  *string    `json:"google_id,omitempty"`
	PhotoURL  *string    `json:"photo_url,omitempty"`
	Role      MemberRole `json:"role"`
}

// CreateMemberInput holds the fields of a new member.
type CreateMemberInput struct {
	Name     string     `json:"name" validate:"required,max=256"`
	Email    string     `json:"email" validate:"required,email"`
	GithubID *string    `json:"github_id,omitempty"`
	GoogleID *string    `json:"google_id,omitempty"`
	PhotoURL *string    `json:"photo_url,omitempty" validate:"omitempty,url"`
	Role     MemberRole `json:"role,omitempty" validate:"omitempty,oneof=admin member read-only"`
}

// UpdateMemberInput is a partial update; nil fields are left unchanged.
type UpdateMemberInput struct {
	Name     *string     `json:"name,omitempty" validate:"omitempty,min=1,max=256"`
	Email    *string     `json:"email,omitempty" validate:"omitempty,email"`
	GithubID *string     `json:"github_id,omitempty"`
	GoogleID *string     `json:"google_id,omitempty"`
	PhotoURL *string     `json:"photo_url,omitempty" validate:"omitempty,url"`
	Role     *MemberRole `json:"role,omitempty" validate:"omitempty,oneof=admin member read-only"`
}

// GetMembersInput filters a member listing.
type GetMembersInput struct {
	Name   *string     `json:"name,omitempty"`
	Email  *string     `json:"email,omitempty"`
	Role   *MemberRole `json:"role,omitempty" validate:"omitempty,oneof=admin member read-only"`
	Limit  int         `json:"limit,omitempty" validate:"gte=0"`
	Offset int         `json:"offset,omitempty" validate:"gte=0"`
}
