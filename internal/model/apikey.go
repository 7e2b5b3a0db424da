package model

import (
	"time"

	"github.com/google/uuid"
)

// APIKey represents an API key issued to a member.
type APIKey struct {
	ID         string     `json:"id"`
	MemberID   uuid.UUID  `json:"member_id"`
	KeyHash    string     `json:"-"` // Never serialize
	KeyPrefix  string     `json:"key_prefix"`
	Name       string     `json:"name,omitempty"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// IsRevoked returns true if the key has been revoked.
func (k *APIKey) IsRevoked() bool {
	return k.RevokedAt != nil
}

// Identity is the authenticated caller of a request.
// It is resolved from the API key on every request and never stored.
type Identity struct {
	MemberID  uuid.UUID
	KeyID     string
	KeyPrefix string
}

// IsZero reports whether no member has been resolved.
func (i Identity) IsZero() bool {
	return i.MemberID == uuid.Nil
}

// APIKeyCreateResponse includes the plaintext key (shown only once).
type APIKeyCreateResponse struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"` // Plaintext - display once only!
	MemberID  uuid.UUID `json:"member_id"`
	Name      string    `json:"name,omitempty"`
	KeyPrefix string    `json:"key_prefix"`
	CreatedAt time.Time `json:"created_at"`
}
