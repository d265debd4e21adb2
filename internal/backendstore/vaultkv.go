package backendstore

import (
	"context"
	"encoding/base64"
	"fmt"

	vaultapi "github.com/hashicorp/vault/api"
)

// VaultKV is the strongly-consistent, lease-capable generic KV backend-store
// variant (SPEC_FULL.md §4.2.2) — HashiCorp Vault's KV v2 secrets engine,
// the same client the VaultTransit KMS adapter uses. Payload bytes are
// opaque to Vault: stored base64-encoded under a single "payload" field, an
// envelope convention kept strictly local to this adapter (the original
// lineage's VaultConnector wrapped its own payload in a similar
// Name/SecretString envelope — see SPEC_FULL.md §9).
type VaultKV struct {
	client *vaultapi.Client
	mount  string
}

func NewVaultKV(client *vaultapi.Client, mount string) *VaultKV {
	if mount == "" {
		mount = "secret"
	}
	return &VaultKV{client: client, mount: mount}
}

func (v *VaultKV) Name() string { return "vault-kv" }

func (v *VaultKV) path(id string) string {
	return fmt.Sprintf("%s/data/%s", v.mount, id)
}

func (v *VaultKV) Put(ctx context.Context, id string, payload []byte) error {
	_, err := v.client.Logical().WriteWithContext(ctx, v.path(id), map[string]interface{}{
		"data": map[string]interface{}{"payload": base64.StdEncoding.EncodeToString(payload)},
	})
	if err != nil {
		return errUnavailable(v.Name(), err)
	}
	return nil
}

func (v *VaultKV) Get(ctx context.Context, id string) ([]byte, error) {
	secret, err := v.client.Logical().ReadWithContext(ctx, v.path(id))
	if err != nil {
		return nil, errUnavailable(v.Name(), err)
	}
	if secret == nil || secret.Data == nil {
		return nil, errNotFound(v.Name(), id)
	}
	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, errNotFound(v.Name(), id)
	}
	encoded, ok := data["payload"].(string)
	if !ok {
		return nil, errNotFound(v.Name(), id)
	}
	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errUnavailable(v.Name(), err)
	}
	return payload, nil
}

func (v *VaultKV) Update(ctx context.Context, id string, payload []byte) error {
	if _, err := v.Get(ctx, id); err != nil {
		return err
	}
	return v.Put(ctx, id, payload)
}

func (v *VaultKV) Delete(ctx context.Context, id string) error {
	_, err := v.client.Logical().DeleteWithContext(ctx, fmt.Sprintf("%s/metadata/%s", v.mount, id))
	if err != nil {
		return errUnavailable(v.Name(), err)
	}
	return nil
}
