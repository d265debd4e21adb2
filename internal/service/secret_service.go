// Package service is the Service Layer (SPEC_FULL.md §4.9): it orchestrates
// C4 (encryption), C5 (metadata), C6 (backend router), C7 (lifecycle), and
// C8 (authority) behind the stable operation contract C10's RPC handlers
// call into. Grounded on the teacher's pkg/service.Service orchestration
// object and internal/services.Registry wiring, re-targeted from rotation
// orchestration onto the create/get/update/delete lifecycle this spec
// defines.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/systmms/secretcore/internal/authority"
	"github.com/systmms/secretcore/internal/backendstore"
	"github.com/systmms/secretcore/internal/crypto"
	dserrors "github.com/systmms/secretcore/internal/errors"
	"github.com/systmms/secretcore/internal/lifecycle"
	"github.com/systmms/secretcore/internal/logging"
	"github.com/systmms/secretcore/internal/metadata"
	"github.com/systmms/secretcore/internal/model"
	"github.com/systmms/secretcore/internal/observability"
)

const component = "secret-service"

// Clock abstracts time.Now for deterministic tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// IDGenerator abstracts ID generation for deterministic tests.
type IDGenerator interface {
	NewID() string
}

type uuidGenerator struct{}

func (uuidGenerator) NewID() string { return uuid.NewString() }

// SecretService orchestrates Secret CRUD and data access.
type SecretService struct {
	metadata *metadata.Store
	router   *backendstore.Router
	engine   *crypto.Engine
	authz    *authority.Enforcer
	logger   *logging.Logger
	clock    Clock
	ids      IDGenerator
	metrics  *observability.Metrics
}

// SetMetrics attaches C12's recorder so Create's rollback steps report
// into the rollback counters. Optional: a SecretService without one just
// skips recording.
func (s *SecretService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// NewSecretService wires C5-C8 into a SecretService. clock and ids default
// to system time and google/uuid respectively when nil.
func NewSecretService(store *metadata.Store, router *backendstore.Router, engine *crypto.Engine, authz *authority.Enforcer, logger *logging.Logger, clock Clock, ids IDGenerator) *SecretService {
	if clock == nil {
		clock = systemClock{}
	}
	if ids == nil {
		ids = uuidGenerator{}
	}
	return &SecretService{metadata: store, router: router, engine: engine, authz: authz, logger: logger, clock: clock, ids: ids}
}

// CreateSecretInput carries the fields a caller may set when creating a
// Secret.
type CreateSecretInput struct {
	Name            string
	SchemaID        string
	Provider        string
	Tags            map[string]string
	Data            map[string]any
	Encrypted       bool
	TrustedSecretID string
	ResourceGroup   model.ResourceGroup
	ProjectID       string
}

// Create validates scope, resolves and parity-checks any linked
// TrustedSecret, optionally envelope-encrypts Data, then writes the
// metadata record before the backend-store payload, rolling back the
// metadata record if the backend-store write fails (§4.7 step ordering: a
// metadata record without a payload is the detectable inconsistent state;
// an orphaned payload with no metadata pointing at it is not).
func (s *SecretService) Create(ctx context.Context, caller authority.Caller, in CreateSecretInput) (model.Secret, error) {
	result := s.authz.AuthorizeWrite(caller, in.ResourceGroup, caller.DomainID, caller.WorkspaceID, in.ProjectID)
	if !result.Allowed {
		return model.Secret{}, dserrors.New(dserrors.KindPermissionDenied, component, result.Reason)
	}

	var trusted model.TrustedSecret
	if in.TrustedSecretID != "" {
		var err error
		trusted, err = s.metadata.GetTrustedSecret(ctx, in.TrustedSecretID)
		if err != nil {
			return model.Secret{}, err
		}
		if trusted.DomainID != caller.DomainID {
			return model.Secret{}, dserrors.New(dserrors.KindNotFound, component, "trusted secret "+in.TrustedSecretID+" not found")
		}
	}

	secretID := s.ids.NewID()
	rec := model.Secret{
		SecretID:        secretID,
		Name:            in.Name,
		SchemaID:        in.SchemaID,
		Provider:        in.Provider,
		Tags:            in.Tags,
		Encrypted:       in.Encrypted,
		TrustedSecretID: in.TrustedSecretID,
		ResourceGroup:   in.ResourceGroup,
		ProjectID:       in.ProjectID,
		WorkspaceID:     caller.WorkspaceID,
		DomainID:        caller.DomainID,
		CreatedAt:       s.clock.Now(),
	}
	stampScope(&rec)

	store, err := s.router.Resolve()
	if err != nil {
		return model.Secret{}, err
	}

	payload, err := s.encodePayload(ctx, secretID, caller.DomainID, in.Data, in.Encrypted, &rec)
	if err != nil {
		return model.Secret{}, err
	}

	if in.TrustedSecretID != "" {
		if err := s.authz.ValidateTrustedSecretLink(rec, trusted); err != nil {
			return model.Secret{}, err
		}
	}

	seq := lifecycle.New(secretID, s.logger).WithMetrics(s.metrics)
	seq.Add(lifecycle.Step{
		Name: "metadata create",
		Do:   func(ctx context.Context) error { return s.metadata.CreateSecret(ctx, rec) },
		Undo: func(ctx context.Context) error { return s.metadata.DeleteSecret(ctx, secretID) },
	})
	seq.Add(lifecycle.Step{
		Name: "backend-store put",
		Do:   func(ctx context.Context) error { return store.Put(ctx, secretID, payload) },
	})

	if err := seq.Run(ctx); err != nil {
		return model.Secret{}, err
	}
	return rec, nil
}

func (s *SecretService) encodePayload(ctx context.Context, secretID, domainID string, data map[string]any, encrypted bool, rec *model.Secret) ([]byte, error) {
	if !encrypted {
		return marshalPlain(data)
	}
	if s.engine == nil {
		return nil, dserrors.New(dserrors.KindUnsupportedEncrypt, component, "encryption requested but no Encryption Engine is configured")
	}
	bundle, _, err := s.engine.Encrypt(ctx, data, crypto.Context(domainID, secretID))
	if err != nil {
		return nil, err
	}
	rec.EncryptOptions = bundle.EncryptOptions
	return []byte(bundle.EncryptedData), nil
}

// Get fetches a Secret's metadata record, enforcing scope.
func (s *SecretService) Get(ctx context.Context, caller authority.Caller, secretID string) (model.Secret, error) {
	rec, err := s.metadata.GetSecret(ctx, secretID)
	if err != nil {
		return model.Secret{}, err
	}
	if rec.DomainID != caller.DomainID {
		return model.Secret{}, dserrors.New(dserrors.KindNotFound, component, "secret "+secretID+" not found")
	}
	return rec, nil
}

// GetData fetches a Secret's payload and, when encrypted, returns the
// envelope bundle for the caller to decrypt client-side; when plaintext, it
// decrypts nothing and returns the stored data directly (§8 invariant: a
// plaintext record never round-trips through the Encryption Engine).
func (s *SecretService) GetData(ctx context.Context, caller authority.Caller, secretID string) (model.EnvelopeBundle, error) {
	rec, err := s.Get(ctx, caller, secretID)
	if err != nil {
		return model.EnvelopeBundle{}, err
	}

	store, err := s.router.Resolve()
	if err != nil {
		return model.EnvelopeBundle{}, err
	}
	payload, err := store.Get(ctx, secretID)
	if err != nil {
		return model.EnvelopeBundle{}, err
	}

	if !rec.Encrypted {
		data, err := unmarshalPlain(payload)
		if err != nil {
			return model.EnvelopeBundle{}, dserrors.Wrap(dserrors.KindInternal, component, err)
		}
		return model.EnvelopeBundle{Encrypted: false, Data: data}, nil
	}

	return model.EnvelopeBundle{
		Encrypted:      true,
		EncryptOptions: rec.EncryptOptions,
		EncryptedData:  string(payload),
	}, nil
}

// UpdateDataInput carries a full payload replacement for UpdateData.
type UpdateDataInput struct {
	Data      map[string]any
	Encrypted bool
}

// UpdateData replaces a Secret's backend-store payload in place, writing the
// backend store before updating encrypt_options metadata so a reader never
// observes encrypt_options describing a payload that has not landed yet.
func (s *SecretService) UpdateData(ctx context.Context, caller authority.Caller, secretID string, in UpdateDataInput) error {
	rec, err := s.Get(ctx, caller, secretID)
	if err != nil {
		return err
	}

	store, err := s.router.Resolve()
	if err != nil {
		return err
	}

	payload, err := s.encodePayload(ctx, secretID, caller.DomainID, in.Data, in.Encrypted, &rec)
	if err != nil {
		return err
	}

	if err := store.Update(ctx, secretID, payload); err != nil {
		return err
	}

	return s.metadata.UpdateSecret(ctx, secretID, model.Patch{
		"encrypted":       in.Encrypted,
		"encrypt_options": rec.EncryptOptions,
	})
}

// Update applies a metadata-only patch (name/tags/schema/project).
func (s *SecretService) Update(ctx context.Context, caller authority.Caller, secretID string, patch model.Patch) error {
	if _, err := s.Get(ctx, caller, secretID); err != nil {
		return err
	}
	return s.metadata.UpdateSecret(ctx, secretID, patch)
}

// Delete removes a Secret's metadata record and backend-store payload.
// Backend-store deletion runs first; per §5's ordering guarantee, a racing
// metadata update for the same ID treats the resulting ErrNotFound as a
// successful no-op rather than an error.
func (s *SecretService) Delete(ctx context.Context, caller authority.Caller, secretID string) error {
	if _, err := s.Get(ctx, caller, secretID); err != nil {
		return err
	}

	store, err := s.router.Resolve()
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, secretID); err != nil && dserrors.KindOf(err) != dserrors.KindNotFound {
		return err
	}
	if err := s.metadata.DeleteSecret(ctx, secretID); err != nil && dserrors.KindOf(err) != dserrors.KindNotFound {
		return err
	}
	return nil
}

// List returns Secret records visible to caller's widened scope.
func (s *SecretService) List(ctx context.Context, caller authority.Caller) ([]model.Secret, error) {
	return s.metadata.ListSecrets(ctx, s.authz.ReadFilter(caller))
}

// Stat summarizes record counts for caller's domain.
func (s *SecretService) Stat(ctx context.Context, caller authority.Caller) (metadata.Stat, error) {
	return s.metadata.Stat(ctx, caller.DomainID)
}
