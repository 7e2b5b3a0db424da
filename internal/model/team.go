package model

import (
	"time"

	"github.com/google/uuid"
)

// TeamVisibility controls who can see a team.
type TeamVisibility string

const (
	TeamVisibilityNone     TeamVisibility = "none"
	TeamVisibilityPublic   TeamVisibility = "public"
	TeamVisibilityPrivate  TeamVisibility = "private"
	TeamVisibilityInternal TeamVisibility = "internal"
)

// Team is a named group of members. The owner is whatever the caller
// supplies; teams are not attributed to the creating member.
type Team struct {
	ID         uuid.UUID      `json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	Name       string         `json:"name"`
	OwnerID    *uuid.UUID     `json:"owner_id,omitempty"`
	Visibility TeamVisibility `json:"visibility"`
	Prefix     *string        `json:"prefix,omitempty"`
}

type CreateTeamInput struct {
	Name       string         `json:"name" validate:"required,max=256"`
	OwnerID    *uuid.UUID     `json:"owner_id,omitempty"`
	Visibility TeamVisibility `json:"visibility,omitempty" validate:"omitempty,oneof=none public private internal"`
	Prefix     *string        `json:"prefix,omitempty" validate:"omitempty,max=16"`
}

type UpdateTeamInput struct {
	Name       *string         `json:"name,omitempty" validate:"omitempty,min=1,max=256"`
	OwnerID    *uuid.UUID      `json:"owner_id,omitempty"`
	Visibility *TeamVisibility `json:"visibility,omitempty" validate:"omitempty,oneof=none public private internal"`
	Prefix     *string         `json:"prefix,omitempty" validate:"omitempty,max=16"`
}

type GetTeamsInput struct {
	Name       *string         `json:"name,omitempty"`
	OwnerID    *uuid.UUID      `json:"owner_id,omitempty"`
	Visibility *TeamVisibility `json:"visibility,omitempty" validate:"omitempty,oneof=none public private internal"`
	Limit      int             `json:"limit,omitempty" validate:"gte=0"`
	Offset     int             `json:"offset,omitempty" validate:"gte=0"`
}
