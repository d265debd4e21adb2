package service

import (
	"context"

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

// TrustedSecretService orchestrates TrustedSecret CRUD. TrustedSecrets carry
// the key material that a Secret with a non-empty TrustedSecretID derives
// from; see authority.Enforcer.ValidateTrustedSecretLink for the
// encryption-parity invariant enforced when a Secret links to one.
type TrustedSecretService struct {
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
// into the rollback counters.
func (s *TrustedSecretService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

func NewTrustedSecretService(store *metadata.Store, router *backendstore.Router, engine *crypto.Engine, authz *authority.Enforcer, logger *logging.Logger, clock Clock, ids IDGenerator) *TrustedSecretService {
	if clock == nil {
		clock = systemClock{}
	}
	if ids == nil {
		ids = uuidGenerator{}
	}
	return &TrustedSecretService{metadata: store, router: router, engine: engine, authz: authz, logger: logger, clock: clock, ids: ids}
}

// CreateTrustedSecretInput carries the fields a caller may set when
// creating a TrustedSecret.
type CreateTrustedSecretInput struct {
	Name             string
	SchemaID         string
	Provider         string
	Tags             map[string]string
	Data             map[string]any
	Encrypted        bool
	TrustedAccountID string
	ResourceGroup    model.ResourceGroup
}

// Create writes a TrustedSecret's metadata record before its backend-store
// payload, rolling back the metadata record if the backend-store write
// fails (§4.7 step ordering — the same ordering SecretService.Create uses).
func (s *TrustedSecretService) Create(ctx context.Context, caller authority.Caller, in CreateTrustedSecretInput) (model.TrustedSecret, error) {
	result := s.authz.AuthorizeWrite(caller, in.ResourceGroup, caller.DomainID, caller.WorkspaceID, "")
	if !result.Allowed {
		return model.TrustedSecret{}, dserrors.New(dserrors.KindPermissionDenied, "trusted-secret-service", result.Reason)
	}

	trustedSecretID := s.ids.NewID()
	rec := model.TrustedSecret{
		TrustedSecretID:  trustedSecretID,
		Name:             in.Name,
		SchemaID:         in.SchemaID,
		Provider:         in.Provider,
		Tags:             in.Tags,
		Encrypted:        in.Encrypted,
		TrustedAccountID: in.TrustedAccountID,
		ResourceGroup:    in.ResourceGroup,
		WorkspaceID:      caller.WorkspaceID,
		DomainID:         caller.DomainID,
		CreatedAt:        s.clock.Now(),
	}
	stampTrustedSecretScope(&rec)

	store, err := s.router.Resolve()
	if err != nil {
		return model.TrustedSecret{}, err
	}

	var payload []byte
	if in.Encrypted {
		if s.engine == nil {
			return model.TrustedSecret{}, dserrors.New(dserrors.KindUnsupportedEncrypt, "trusted-secret-service", "encryption requested but no Encryption Engine is configured")
		}
		bundle, _, err := s.engine.Encrypt(ctx, in.Data, crypto.Context(caller.DomainID, trustedSecretID))
		if err != nil {
			return model.TrustedSecret{}, err
		}
		rec.EncryptOptions = bundle.EncryptOptions
		payload = []byte(bundle.EncryptedData)
	} else {
		payload, err = marshalPlain(in.Data)
		if err != nil {
			return model.TrustedSecret{}, err
		}
	}

	seq := lifecycle.New(trustedSecretID, s.logger).WithMetrics(s.metrics)
	seq.Add(lifecycle.Step{
		Name: "metadata create",
		Do:   func(ctx context.Context) error { return s.metadata.CreateTrustedSecret(ctx, rec) },
		Undo: func(ctx context.Context) error { return s.metadata.DeleteTrustedSecret(ctx, trustedSecretID) },
	})
	seq.Add(lifecycle.Step{
		Name: "backend-store put",
		Do:   func(ctx context.Context) error { return store.Put(ctx, trustedSecretID, payload) },
	})

	if err := seq.Run(ctx); err != nil {
		return model.TrustedSecret{}, err
	}
	return rec, nil
}

// Get fetches a TrustedSecret's metadata record, enforcing scope.
func (s *TrustedSecretService) Get(ctx context.Context, caller authority.Caller, trustedSecretID string) (model.TrustedSecret, error) {
	rec, err := s.metadata.GetTrustedSecret(ctx, trustedSecretID)
	if err != nil {
		return model.TrustedSecret{}, err
	}
	if rec.DomainID != caller.DomainID {
		return model.TrustedSecret{}, dserrors.New(dserrors.KindNotFound, "trusted-secret-service", "trusted secret "+trustedSecretID+" not found")
	}
	return rec, nil
}

// Update applies a metadata-only patch.
func (s *TrustedSecretService) Update(ctx context.Context, caller authority.Caller, trustedSecretID string, patch model.Patch) error {
	if _, err := s.Get(ctx, caller, trustedSecretID); err != nil {
		return err
	}
	return s.metadata.UpdateTrustedSecret(ctx, trustedSecretID, patch)
}

// Delete removes a TrustedSecret, refusing when any Secret still
// references it (§4.8's "related secret exists" guard) — deleting the key
// material out from under a dependent Secret would make that Secret
// permanently undecryptable.
func (s *TrustedSecretService) Delete(ctx context.Context, caller authority.Caller, trustedSecretID string) error {
	if _, err := s.Get(ctx, caller, trustedSecretID); err != nil {
		return err
	}
	count, err := s.metadata.CountSecretsReferencing(ctx, trustedSecretID)
	if err != nil {
		return err
	}
	if count > 0 {
		return dserrors.New(dserrors.KindRelatedSecretExists, "trusted-secret-service", "trusted secret "+trustedSecretID+" is still referenced by secrets")
	}

	store, err := s.router.Resolve()
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, trustedSecretID); err != nil && dserrors.KindOf(err) != dserrors.KindNotFound {
		return err
	}
	if err := s.metadata.DeleteTrustedSecret(ctx, trustedSecretID); err != nil && dserrors.KindOf(err) != dserrors.KindNotFound {
		return err
	}
	return nil
}

// List returns TrustedSecret records visible to caller's widened scope.
func (s *TrustedSecretService) List(ctx context.Context, caller authority.Caller) ([]model.TrustedSecret, error) {
	return s.metadata.ListTrustedSecrets(ctx, s.authz.ReadFilter(caller))
}

// Stat summarizes record counts for caller's domain.
func (s *TrustedSecretService) Stat(ctx context.Context, caller authority.Caller) (metadata.Stat, error) {
	return s.metadata.Stat(ctx, caller.DomainID)
}
