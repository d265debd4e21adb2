// Package backendstore implements the Backend-Store Adapter contract
// (SPEC_FULL.md §4.2): a uniform Put/Get/Delete/Update surface over an
// opaque string ID and an opaque byte payload, with five concrete variants,
// and the Router (C6) that resolves the configured variant by name.
//
// The contract shape — typed errors, a capability-less Put/Get/Delete
// surface — is grounded on the teacher's pkg/secretstore.SecretStore
// interface, simplified from its URI-reference-keyed addressing down to
// plain opaque-ID addressing, since this spec's callers always already know
// the record ID they're storing against.
package backendstore

import (
	"context"

	dserrors "github.com/systmms/secretcore/internal/errors"
)

// Store is implemented by every backend-store adapter.
type Store interface {
	// Name identifies the adapter for logging/metrics labeling.
	Name() string

	// Put creates a new payload under id. Implementations that cannot
	// distinguish create-from-update (e.g. a plain KV overwrite) document
	// that in their own godoc; the Router's callers only rely on Put
	// failing loudly when the backend itself rejects a duplicate.
	Put(ctx context.Context, id string, payload []byte) error

	// Get returns the payload stored under id, or ErrNotFound.
	Get(ctx context.Context, id string) ([]byte, error)

	// Delete removes the payload under id. Deleting a missing id is not an
	// error (idempotent), per SPEC_FULL.md §4.7's delete-then-delete law.
	Delete(ctx context.Context, id string) error

	// Update replaces the existing payload under id, failing with
	// ErrNotFound if no payload exists yet.
	Update(ctx context.Context, id string, payload []byte) error
}

// component is the errors.Error Component tag every adapter in this package uses.
const component = "backend-store"

func errUnavailable(name string, err error) error {
	return dserrors.Wrap(dserrors.KindStoreUnavailable, component+"."+name, err)
}

func errNotFound(name, id string) error {
	return dserrors.New(dserrors.KindNotFound, component+"."+name, "no payload for id "+id)
}

func errConflict(name, id string) error {
	return dserrors.New(dserrors.KindAlreadyExists, component+"."+name, "payload already exists for id "+id)
}
