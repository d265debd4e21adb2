package rpc

import "github.com/systmms/secretcore/internal/model"

// Request/response types for TrustedSecretService.

type CreateTrustedSecretRequest struct {
	Name             string
	SchemaID         string
	Provider         string
	Tags             map[string]string
	Data             map[string]any
	Encrypted        bool
	TrustedAccountID string
	ResourceGroup    string
}

type TrustedSecretResponse struct {
	TrustedSecret model.TrustedSecret
}

type GetTrustedSecretRequest struct {
	TrustedSecretID string
}

type UpdateTrustedSecretRequest struct {
	TrustedSecretID string
	Patch           map[string]any
}

type DeleteTrustedSecretRequest struct {
	TrustedSecretID string
}

type DeleteTrustedSecretResponse struct{}

type ListTrustedSecretsRequest struct{}

type ListTrustedSecretsResponse struct {
	TrustedSecrets []model.TrustedSecret
}

type StatTrustedSecretsRequest struct{}

type StatTrustedSecretsResponse struct {
	Secrets        int64
	TrustedSecrets int64
	UserSecrets    int64
}
