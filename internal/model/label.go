package model

import (
	"time"

	"github.com/google/uuid"
)

// Label tags tasks.
type Label struct {
	ID          uuid.UUID `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Color       *string   `json:"color,omitempty"`
}

type CreateLabelInput struct {
	Name        string  `json:"name" validate:"required,max=128"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

type UpdateLabelInput struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=128"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

type GetLabelsInput struct {
	Name   *string `json:"name,omitempty"`
	Limit  int     `json:"limit,omitempty" validate:"gte=0"`
	Offset int     `json:"offset,omitempty" validate:"gte=0"`
}
