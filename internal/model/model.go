// Package model defines the tenant-scoped record types the service persists
// and exchanges over its RPC surface: Secret, TrustedSecret, UserSecret, and
// the encrypted-bundle shape returned on reads. Field sets and the
// updatable-field subsets below are grounded on the secret service's
// original MongoEngine model (secret_id/name/schema_id/provider/tags/
// encrypted/encrypt_options/trusted_secret_id/service_account_id/
// resource_group/project_id/workspace_id/domain_id), translated to plain Go
// structs per SPEC_FULL.md §3.
package model

import "time"

// ResourceGroup is the scope level a record is anchored to.
type ResourceGroup string

const (
	ResourceGroupDomain    ResourceGroup = "DOMAIN"
	ResourceGroupWorkspace ResourceGroup = "WORKSPACE"
	ResourceGroupProject   ResourceGroup = "PROJECT"
	ResourceGroupUser      ResourceGroup = "USER"
)

// Wildcard marks a scope field as widened for read visibility (§4.8).
const Wildcard = "*"

// EncryptOptions carries the envelope-encryption metadata stored alongside
// an encrypted record; see SPEC_FULL.md §6.2 for the wire shape.
type EncryptOptions struct {
	EncryptType             string `json:"encrypt_type,omitempty"`
	EncryptAlgorithm        string `json:"encrypt_algorithm,omitempty"`
	Nonce                   string `json:"nonce,omitempty"`
	EncryptContext          string `json:"encrypt_context,omitempty"`
	EncryptDataKey          string `json:"encrypt_data_key,omitempty"`
	TrustedEncryptedDataKey string `json:"trusted_encrypted_data_key,omitempty"`
}

// Secret is a project/workspace/domain-scoped credential record.
type Secret struct {
	SecretID        string            `json:"secret_id"`
	Name            string            `json:"name"`
	SchemaID        string            `json:"schema_id,omitempty"`
	Provider        string            `json:"provider,omitempty"`
	Tags            map[string]string `json:"tags,omitempty"`
	Encrypted       bool              `json:"encrypted"`
	EncryptOptions  EncryptOptions    `json:"encrypt_options,omitempty"`
	TrustedSecretID string            `json:"trusted_secret_id,omitempty"`
	ServiceAccountID string           `json:"service_account_id,omitempty"`
	ResourceGroup   ResourceGroup     `json:"resource_group"`
	ProjectID       string            `json:"project_id"`
	WorkspaceID     string            `json:"workspace_id"`
	DomainID        string            `json:"domain_id"`
	CreatedAt       time.Time         `json:"created_at"`
}

// UpdatableSecretFields lists the fields Update may patch on a Secret.
var UpdatableSecretFields = []string{"name", "schema_id", "tags", "encrypted", "encrypt_options", "project_id"}

// TrustedSecret is a workspace/domain-scoped record other Secrets may derive
// key material from.
type TrustedSecret struct {
	TrustedSecretID   string            `json:"trusted_secret_id"`
	Name              string            `json:"name"`
	SchemaID          string            `json:"schema_id,omitempty"`
	Provider          string            `json:"provider,omitempty"`
	Tags              map[string]string `json:"tags,omitempty"`
	Encrypted         bool              `json:"encrypted"`
	EncryptOptions    EncryptOptions    `json:"encrypt_options,omitempty"`
	TrustedAccountID  string            `json:"trusted_account_id,omitempty"`
	ResourceGroup     ResourceGroup     `json:"resource_group"`
	WorkspaceID       string            `json:"workspace_id"`
	DomainID          string            `json:"domain_id"`
	CreatedAt         time.Time         `json:"created_at"`
}

// UpdatableTrustedSecretFields lists the fields Update may patch on a TrustedSecret.
var UpdatableTrustedSecretFields = []string{"name", "schema_id", "tags", "encrypted", "encrypt_options"}

// UserSecret is a user-scoped credential record.
type UserSecret struct {
	UserSecretID   string            `json:"user_secret_id"`
	Name           string            `json:"name"`
	SchemaID       string            `json:"schema_id,omitempty"`
	Tags           map[string]string `json:"tags,omitempty"`
	Encrypted      bool              `json:"encrypted"`
	EncryptOptions EncryptOptions    `json:"encrypt_options,omitempty"`
	UserID         string            `json:"user_id"`
	DomainID       string            `json:"domain_id"`
	CreatedAt      time.Time         `json:"created_at"`
}

// UpdatableUserSecretFields lists the fields Update may patch on a UserSecret.
var UpdatableUserSecretFields = []string{"name", "schema_id", "tags", "encrypted", "encrypt_options"}

// EnvelopeBundle is the wire shape returned by GetData when a record is
// encrypted (SPEC_FULL.md §6.2). When Encrypted is false, Data carries the
// plaintext payload instead and EncryptedData/EncryptOptions are unset.
type EnvelopeBundle struct {
	Encrypted      bool              `json:"encrypted"`
	EncryptOptions EncryptOptions    `json:"encrypt_options,omitempty"`
	EncryptedData  string            `json:"encrypted_data,omitempty"`
	Data           map[string]any    `json:"data,omitempty"`
}

// ScopeFilter constrains metadata queries to the caller's authenticated
// scope. Empty fields are not applied as filters. Project/Workspace carry
// the widened Wildcard value for reads that should also match
// domain/workspace-wide records (§4.8).
type ScopeFilter struct {
	DomainID     string
	WorkspaceID  string
	ProjectIDs   []string
	UserID       string
}

// Patch is a partial update restricted to a declared updatable-field subset;
// the metadata store's Update methods check it with Allowed at the point of
// use so a caller cannot smuggle an immutable field through.
type Patch map[string]any

// Allowed reports whether every key in the patch is in the allowed set.
func (p Patch) Allowed(allowed []string) (ok bool, badField string) {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		allowedSet[f] = struct{}{}
	}
	for k := range p {
		if _, ok := allowedSet[k]; !ok {
			return false, k
		}
	}
	return true, ""
}
