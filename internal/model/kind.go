// Package model defines domain entities for the application.
package model

// Kind identifies one of the resource families served by the gateway.
type Kind string

const (
	KindTask    Kind = "task"
	KindProject Kind = "project"
	KindMember  Kind = "member"
	KindTeam    Kind = "team"
	KindLabel   Kind = "label"
)

// Kinds lists every resource kind in routing order.
var Kinds = []Kind{KindTask, KindProject, KindMember, KindTeam, KindLabel}

// Plural returns the collection name used in URLs ("tasks", "projects", ...).
func (k Kind) Plural() string {
	return string(k) + "s"
}

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindTask, KindProject, KindMember, KindTeam, KindLabel:
		return true
	}
	return false
}
