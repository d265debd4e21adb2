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

const userSecretComponent = "user-secret-service"

// UserSecretService orchestrates UserSecret CRUD and data access.
// UserSecrets are personal data: visible only to their owning user,
// regardless of the caller's domain role (authority.Enforcer.
// AuthorizeUserSecretAccess never widens for a domain admin).
type UserSecretService struct {
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
func (s *UserSecretService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

func NewUserSecretService(store *metadata.Store, router *backendstore.Router, engine *crypto.Engine, authz *authority.Enforcer, logger *logging.Logger, clock Clock, ids IDGenerator) *UserSecretService {
	if clock == nil {
		clock = systemClock{}
	}
	if ids == nil {
		ids = uuidGenerator{}
	}
	return &UserSecretService{metadata: store, router: router, engine: engine, authz: authz, logger: logger, clock: clock, ids: ids}
}

// CreateUserSecretInput carries the fields a caller may set when creating a
// UserSecret.
type CreateUserSecretInput struct {
	Name      string
	SchemaID  string
	Tags      map[string]string
	Data      map[string]any
	Encrypted bool
}

// Create writes a UserSecret's metadata record before its backend-store
// payload, rolling back the metadata record if the backend-store write
// fails (§4.7 step ordering).
func (s *UserSecretService) Create(ctx context.Context, caller authority.Caller, in CreateUserSecretInput) (model.UserSecret, error) {
	userSecretID := s.ids.NewID()
	rec := model.UserSecret{
		UserSecretID: userSecretID,
		Name:         in.Name,
		SchemaID:     in.SchemaID,
		Tags:         in.Tags,
		Encrypted:    in.Encrypted,
		UserID:       caller.UserID,
		DomainID:     caller.DomainID,
		CreatedAt:    s.clock.Now(),
	}

	store, err := s.router.Resolve()
	if err != nil {
		return model.UserSecret{}, err
	}

	var payload []byte
	if in.Encrypted {
		if s.engine == nil {
			return model.UserSecret{}, dserrors.New(dserrors.KindUnsupportedEncrypt, userSecretComponent, "encryption requested but no Encryption Engine is configured")
		}
		bundle, _, err := s.engine.Encrypt(ctx, in.Data, crypto.Context(caller.DomainID, userSecretID))
		if err != nil {
			return model.UserSecret{}, err
		}
		rec.EncryptOptions = bundle.EncryptOptions
		payload = []byte(bundle.EncryptedData)
	} else {
		payload, err = marshalPlain(in.Data)
		if err != nil {
			return model.UserSecret{}, err
		}
	}

	seq := lifecycle.New(userSecretID, s.logger).WithMetrics(s.metrics)
	seq.Add(lifecycle.Step{
		Name: "metadata create",
		Do:   func(ctx context.Context) error { return s.metadata.CreateUserSecret(ctx, rec) },
		Undo: func(ctx context.Context) error { return s.metadata.DeleteUserSecret(ctx, userSecretID) },
	})
	seq.Add(lifecycle.Step{
		Name: "backend-store put",
		Do:   func(ctx context.Context) error { return store.Put(ctx, userSecretID, payload) },
	})

	if err := seq.Run(ctx); err != nil {
		return model.UserSecret{}, err
	}
	return rec, nil
}

// Get fetches a UserSecret's metadata record, enforcing owner match.
func (s *UserSecretService) Get(ctx context.Context, caller authority.Caller, userSecretID string) (model.UserSecret, error) {
	rec, err := s.metadata.GetUserSecret(ctx, userSecretID)
	if err != nil {
		return model.UserSecret{}, err
	}
	if result := s.authz.AuthorizeUserSecretAccess(caller, rec.UserID); !result.Allowed {
		return model.UserSecret{}, dserrors.New(dserrors.KindNotFound, userSecretComponent, "user secret "+userSecretID+" not found")
	}
	return rec, nil
}

// GetData fetches a UserSecret's payload, returning an envelope bundle when
// encrypted or the plaintext data otherwise.
func (s *UserSecretService) GetData(ctx context.Context, caller authority.Caller, userSecretID string) (model.EnvelopeBundle, error) {
	rec, err := s.Get(ctx, caller, userSecretID)
	if err != nil {
		return model.EnvelopeBundle{}, err
	}

	store, err := s.router.Resolve()
	if err != nil {
		return model.EnvelopeBundle{}, err
	}
	payload, err := store.Get(ctx, userSecretID)
	if err != nil {
		return model.EnvelopeBundle{}, err
	}

	if !rec.Encrypted {
		data, err := unmarshalPlain(payload)
		if err != nil {
			return model.EnvelopeBundle{}, dserrors.Wrap(dserrors.KindInternal, userSecretComponent, err)
		}
		return model.EnvelopeBundle{Encrypted: false, Data: data}, nil
	}

	return model.EnvelopeBundle{
		Encrypted:      true,
		EncryptOptions: rec.EncryptOptions,
		EncryptedData:  string(payload),
	}, nil
}

// UpdateData replaces a UserSecret's backend-store payload.
func (s *UserSecretService) UpdateData(ctx context.Context, caller authority.Caller, userSecretID string, in CreateUserSecretInput) error {
	rec, err := s.Get(ctx, caller, userSecretID)
	if err != nil {
		return err
	}

	store, err := s.router.Resolve()
	if err != nil {
		return err
	}

	var payload []byte
	if in.Encrypted {
		if s.engine == nil {
			return dserrors.New(dserrors.KindUnsupportedEncrypt, userSecretComponent, "encryption requested but no Encryption Engine is configured")
		}
		bundle, _, err := s.engine.Encrypt(ctx, in.Data, crypto.Context(caller.DomainID, userSecretID))
		if err != nil {
			return err
		}
		rec.EncryptOptions = bundle.EncryptOptions
		payload = []byte(bundle.EncryptedData)
	} else {
		payload, err = marshalPlain(in.Data)
		if err != nil {
			return err
		}
	}

	if err := store.Update(ctx, userSecretID, payload); err != nil {
		return err
	}
	return s.metadata.UpdateUserSecret(ctx, userSecretID, model.Patch{
		"encrypted":       in.Encrypted,
		"encrypt_options": rec.EncryptOptions,
	})
}

// Update applies a metadata-only patch.
func (s *UserSecretService) Update(ctx context.Context, caller authority.Caller, userSecretID string, patch model.Patch) error {
	if _, err := s.Get(ctx, caller, userSecretID); err != nil {
		return err
	}
	return s.metadata.UpdateUserSecret(ctx, userSecretID, patch)
}

// Delete removes a UserSecret's metadata record and backend-store payload.
func (s *UserSecretService) Delete(ctx context.Context, caller authority.Caller, userSecretID string) error {
	if _, err := s.Get(ctx, caller, userSecretID); err != nil {
		return err
	}

	store, err := s.router.Resolve()
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, userSecretID); err != nil && dserrors.KindOf(err) != dserrors.KindNotFound {
		return err
	}
	if err := s.metadata.DeleteUserSecret(ctx, userSecretID); err != nil && dserrors.KindOf(err) != dserrors.KindNotFound {
		return err
	}
	return nil
}

// List returns UserSecret records owned by caller.
func (s *UserSecretService) List(ctx context.Context, caller authority.Caller) ([]model.UserSecret, error) {
	return s.metadata.ListUserSecrets(ctx, caller.DomainID, caller.UserID)
}

// Stat summarizes record counts for caller's domain.
func (s *UserSecretService) Stat(ctx context.Context, caller authority.Caller) (metadata.Stat, error) {
	return s.metadata.Stat(ctx, caller.DomainID)
}
