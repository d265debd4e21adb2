package kms

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	vaultapi "github.com/hashicorp/vault/api"

	dserrors "github.com/systmms/secretcore/internal/errors"
)

// VaultTransit generates and unwraps data keys via HashiCorp Vault's
// Transit secrets engine, selected by encrypt_type=VAULT_TRANSIT. It uses
// Vault's own "datakey" endpoint, which already returns a plaintext +
// KMS-wrapped pair in one call — the same shape this adapter's contract
// requires, so no local AES wrapping is needed on top of Vault's.
type VaultTransit struct {
	client *vaultapi.Client
	mount  string
}

func NewVaultTransit(client *vaultapi.Client, mount string) *VaultTransit {
	if mount == "" {
		mount = "transit"
	}
	return &VaultTransit{client: client, mount: mount}
}

func (v *VaultTransit) Name() string { return EncryptTypeVaultTransit }

func (v *VaultTransit) GenerateDataKey(ctx context.Context, keyAlias string, context_ map[string]string) ([]byte, []byte, error) {
	payload := map[string]interface{}{"bits": 256}
	if encodedCtx, ok := encodeContext(context_); ok {
		payload["context"] = encodedCtx
	}

	secret, err := v.client.Logical().WriteWithContext(ctx, fmt.Sprintf("%s/datakey/plaintext/%s", v.mount, keyAlias), payload)
	if err != nil || secret == nil {
		return nil, nil, dserrors.Wrap(dserrors.KindKMSUnavailable, "kms.vault", fmt.Errorf("generate data key: %w", err))
	}

	plaintextB64, _ := secret.Data["plaintext"].(string)
	ciphertext, _ := secret.Data["ciphertext"].(string)
	plaintext, err := base64.StdEncoding.DecodeString(plaintextB64)
	if err != nil {
		return nil, nil, dserrors.Wrap(dserrors.KindKMSUnavailable, "kms.vault", fmt.Errorf("decode plaintext: %w", err))
	}
	return plaintext, []byte(ciphertext), nil
}

func (v *VaultTransit) DecryptDataKey(ctx context.Context, keyAlias string, wrappedKey []byte, context_ map[string]string) ([]byte, error) {
	payload := map[string]interface{}{"ciphertext": string(wrappedKey)}
	if encodedCtx, ok := encodeContext(context_); ok {
		payload["context"] = encodedCtx
	}

	secret, err := v.client.Logical().WriteWithContext(ctx, fmt.Sprintf("%s/decrypt/%s", v.mount, keyAlias), payload)
	if err != nil || secret == nil {
		return nil, dserrors.Wrap(dserrors.KindKMSUnavailable, "kms.vault", fmt.Errorf("decrypt data key: %w", err))
	}

	plaintextB64, _ := secret.Data["plaintext"].(string)
	plaintext, err := base64.StdEncoding.DecodeString(plaintextB64)
	if err != nil {
		return nil, dserrors.Wrap(dserrors.KindDecryptFailed, "kms.vault", err)
	}
	return plaintext, nil
}

// encodeContext canonicalizes the context map the same way the Encryption
// Engine does (sorted-key JSON, base64), so Vault's convergent-encryption
// context check is bound to exactly the same bytes.
func encodeContext(context_ map[string]string) (string, bool) {
	if len(context_) == 0 {
		return "", false
	}
	raw, err := json.Marshal(context_)
	if err != nil {
		return "", false
	}
	return base64.StdEncoding.EncodeToString(raw), true
}
