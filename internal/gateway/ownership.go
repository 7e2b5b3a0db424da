package gateway

import (
	"github.com/google/uuid"

	"github.com/plexo/gateway/internal/model"
)

// Ownership marks whether a kind's creator becomes its owner.
type Ownership bool

const (
	Owned   Ownership = true
	Unowned Ownership = false
)

// Ownable is implemented by create inputs of owned kinds.
type Ownable interface {
	AssignOwner(memberID uuid.UUID)
}

// ApplyOwnership returns input with its owner set to the caller when the kind
// is owned. Whatever owner the client supplied, including none, is discarded.
// Unowned inputs are returned untouched.
func ApplyOwnership[C any](ownership Ownership, input C, caller model.Identity) C {
	if ownership != Owned {
		return input
	}
	if o, ok := any(&input).(Ownable); ok {
		o.AssignOwner(caller.MemberID)
	}
	return input
}

func canCarryOwner[C any]() bool {
	var zero C
	_, ok := any(&zero).(Ownable)
	return ok
}
