// Package kms defines the key-management contract the Encryption Engine
// uses to materialize and unwrap per-record data keys, and two concrete
// adapters: AWS KMS (the default) and HashiCorp Vault Transit. The
// interface split (generate vs. decrypt a data key, keyed by alias, bound
// to a context) mirrors the KeyManagementService contract used by
// envelope-encryption libraries in the wider ecosystem.
package kms

import (
	"context"

	dserrors "github.com/systmms/secretcore/internal/errors"
)

// Service generates and unwraps symmetric data keys via a tenant-owned KMS.
// Implementations must never retain the plaintext key beyond the call that
// returned or consumed it (see SPEC_FULL.md §5).
type Service interface {
	// GenerateDataKey returns a fresh 256-bit plaintext key and its
	// KMS-wrapped form under keyAlias. context is bound as authenticated
	// additional data where the backend supports it.
	GenerateDataKey(ctx context.Context, keyAlias string, context_ map[string]string) (plaintextKey, wrappedKey []byte, err error)

	// DecryptDataKey unwraps wrappedKey back to its plaintext form. context
	// must match exactly what was supplied to GenerateDataKey, or the
	// unwrap fails.
	DecryptDataKey(ctx context.Context, keyAlias string, wrappedKey []byte, context_ map[string]string) (plaintextKey []byte, err error)

	// Name identifies the adapter for logging/metrics labeling; the
	// Encryption Engine also records it as a bundle's encrypt_type.
	Name() string
}

// EncryptType values select which adapter the KMS registry resolves to, per
// the "encrypt_type" configuration key (§6.3).
const (
	EncryptTypeAWSKMS        = "AWS_KMS"
	EncryptTypeVaultTransit  = "VAULT_TRANSIT"
)

// Registry resolves the configured encrypt_type to a concrete Service,
// grounded on the teacher's name-keyed factory-map registry idiom
// (internal/secretstores.Registry / internal/providers.Registry).
type Registry struct {
	services map[string]Service
}

func NewRegistry() *Registry {
	return &Registry{services: make(map[string]Service)}
}

// Register adds a Service under the given encrypt_type name.
func (r *Registry) Register(encryptType string, svc Service) {
	r.services[encryptType] = svc
}

// Resolve returns the Service registered for encryptType.
func (r *Registry) Resolve(encryptType string) (Service, error) {
	svc, ok := r.services[encryptType]
	if !ok {
		return nil, dserrors.New(dserrors.KindUnsupportedEncrypt, "kms", "unsupported encrypt_type: "+encryptType)
	}
	return svc, nil
}
