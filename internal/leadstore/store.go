// Package leadstore persists accepted leads in an external key-value
// collaborator. Exactly one backend is bound per deployment; each lead
// produces a single guarded write under a one-year expiration, with small
// side metadata (email, company, creation time) kept queryable by the
// backend's own tooling. Records are write-once: nothing in this system
// reads a lead back.
package leadstore

import (
	"context"
	"errors"
	"time"
)

// LeadTTL is the retention applied to every persisted lead.
const LeadTTL = 365 * 24 * time.Hour

// ErrDuplicateID indicates the generated identifier already exists. The
// caller regenerates and writes a fresh key; the existing record is never
// overwritten.
var ErrDuplicateID = errors.New("leadstore: lead id already exists")

// Record is what a backend persists for one lead: the identifier key, the
// full JSON-serialized lead, and the metadata side-index fields.
type Record struct {
	ID        string
	Payload   []byte
	Email     string
	Company   string
	CreatedAt time.Time
}

// Store is the key-value collaborator bound at startup.
type Store interface {
	// Save writes the record once. It returns ErrDuplicateID when the key
	// is already present.
	Save(ctx context.Context, rec Record) error
}
