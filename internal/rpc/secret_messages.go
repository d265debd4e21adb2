package rpc

import "github.com/systmms/secretcore/internal/model"

// Request/response types for SecretService. Field sets mirror
// model.Secret/model.EnvelopeBundle plus the identifiers each RPC needs;
// see SPEC_FULL.md §6.1/§6.2 for the wire shapes these carry.

type CreateSecretRequest struct {
	Name            string
	SchemaID        string
	Provider        string
	Tags            map[string]string
	Data            map[string]any
	Encrypted       bool
	TrustedSecretID string
	ResourceGroup   string
	ProjectID       string
}

type SecretResponse struct {
	Secret model.Secret
}

type GetSecretRequest struct {
	SecretID string
}

type GetSecretDataResponse struct {
	Bundle model.EnvelopeBundle
}

type UpdateSecretRequest struct {
	SecretID string
	Patch    map[string]any
}

type UpdateSecretDataRequest struct {
	SecretID  string
	Data      map[string]any
	Encrypted bool
}

type DeleteSecretRequest struct {
	SecretID string
}

type DeleteSecretResponse struct{}

type ListSecretsRequest struct{}

type ListSecretsResponse struct {
	Secrets []model.Secret
}

type StatSecretsRequest struct{}

type StatSecretsResponse struct {
	Secrets        int64
	TrustedSecrets int64
	UserSecrets    int64
}
