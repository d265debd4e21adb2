package rpc

import "github.com/systmms/secretcore/internal/model"

// Request/response types for UserSecretService.

type CreateUserSecretRequest struct {
	Name      string
	SchemaID  string
	Tags      map[string]string
	Data      map[string]any
	Encrypted bool
}

type UserSecretResponse struct {
	UserSecret model.UserSecret
}

type GetUserSecretRequest struct {
	UserSecretID string
}

type GetUserSecretDataResponse struct {
	Bundle model.EnvelopeBundle
}

type UpdateUserSecretRequest struct {
	UserSecretID string
	Patch        map[string]any
}

type UpdateUserSecretDataRequest struct {
	UserSecretID string
	Data         map[string]any
	Encrypted    bool
}

type DeleteUserSecretRequest struct {
	UserSecretID string
}

type DeleteUserSecretResponse struct{}

type ListUserSecretsRequest struct{}

type ListUserSecretsResponse struct {
	UserSecrets []model.UserSecret
}

type StatUserSecretsRequest struct{}

type StatUserSecretsResponse struct {
	Secrets        int64
	TrustedSecrets int64
	UserSecrets    int64
}
