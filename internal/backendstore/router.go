package backendstore

import (
	"fmt"

	dserrors "github.com/systmms/secretcore/internal/errors"
)

// Router resolves the single configured "backend" name to a concrete Store
// for the lifetime of the process (SPEC_FULL.md §4.6). It is built once at
// startup and holds no mutable state afterward — grounded on the teacher's
// name-keyed factory-map registries (internal/secretstores.Registry,
// internal/providers.Registry), simplified here since C6 resolves exactly
// one active backend rather than many simultaneously-available ones.
type Router struct {
	active Store
	name   string
}

// NewRouter builds a Router that always resolves to store. Configuration
// selects which concrete Store to construct before calling this.
func NewRouter(name string, store Store) (*Router, error) {
	if store == nil {
		return nil, dserrors.New(dserrors.KindBackendNotDefined, "backend-router", fmt.Sprintf("backend %q has no adapter configured", name))
	}
	return &Router{active: store, name: name}, nil
}

// Resolve returns the active Store. Present for symmetry with other
// registries in this codebase and to make the call site read like the rest
// of the adapter-resolution idiom, even though there is only one backend.
func (r *Router) Resolve() (Store, error) {
	if r.active == nil {
		return nil, dserrors.New(dserrors.KindBackendNotDefined, "backend-router", "no backend configured")
	}
	return r.active, nil
}

// Name reports the configured backend name for logging/metrics.
func (r *Router) Name() string { return r.name }

// SupportedBackends lists the names of the five backend-store variants.
// IsSupportedBackend checks a name against it; neither config.Validate nor
// the `config validate` CLI command consults this list.
var SupportedBackends = []string{
	"aws-secretsmanager",
	"vault-kv",
	"etcd-kv",
	"sql",
	"dev",
}

func IsSupportedBackend(name string) bool {
	for _, b := range SupportedBackends {
		if b == name {
			return true
		}
	}
	return false
}
