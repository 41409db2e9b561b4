package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	formstate "github.com/goliatone/go-formstate"
)

// ErrETagMismatch is returned when a save carries an ETag that no longer
// matches the stored record.
var ErrETagMismatch = errors.New("store: etag mismatch")

// Scope names accepted by Ref.
const (
	ScopeSystem = "system"
	ScopeTenant = "tenant"
	ScopeOrg    = "org"
	ScopeTeam   = "team"
	ScopeUser   = "user"
)

// Ref identifies one persisted form record.
type Ref struct {
	Form  string
	Scope string
	// ID is the owner identifier for every scope except system.
	ID string
}

// Meta is storage-owned metadata used for audit and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads and saves the record of a single Ref.
type Store interface {
	Load(ctx context.Context, ref Ref) (data formstate.Record, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, data formstate.Record, meta Meta) (Meta, error)
}

// Identifier returns the canonical storage key of r.
func (r Ref) Identifier() (string, error) {
	form := strings.TrimSpace(r.Form)
	if form == "" {
		return "", fmt.Errorf("store: form name is required")
	}
	scope := strings.TrimSpace(r.Scope)
	switch scope {
	case "", ScopeSystem:
		return fmt.Sprintf("%s/%s", ScopeSystem, form), nil
	case ScopeTenant, ScopeOrg, ScopeTeam, ScopeUser:
		id := strings.TrimSpace(r.ID)
		if id == "" {
			return "", fmt.Errorf("store: missing id for scope %q", scope)
		}
		return fmt.Sprintf("%s/%s/%s", scope, id, form), nil
	default:
		return "", fmt.Errorf("store: unsupported scope name %q", scope)
	}
}

func mergeMeta(base, override Meta) Meta {
	out := base
	if override.SnapshotID != "" {
		out.SnapshotID = override.SnapshotID
	}
	if override.ETag != "" {
		out.ETag = override.ETag
	}
	if !override.UpdatedAt.IsZero() {
		out.UpdatedAt = override.UpdatedAt
	}
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return out
}

func cloneMeta(meta Meta) Meta {
	out := meta
	if meta.Extra == nil {
		return out
	}
	out.Extra = make(map[string]string, len(meta.Extra))
	for k, v := range meta.Extra {
		out.Extra[k] = v
	}
	return out
}
