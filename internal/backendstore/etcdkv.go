package backendstore

import (
	"context"
	"encoding/base64"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// EtcdKV is the coordination-service generic KV backend-store variant
// (SPEC_FULL.md §4.2.3). A distinct adapter from VaultKV despite the
// similar contract because its configuration surface (endpoints, dial
// timeout, TLS) is materially different, and because — unlike Vault — etcd
// has no lease-scoped secrets engine; payload bytes are stored base64-coded
// directly under the record's key.
type EtcdKV struct {
	client    *clientv3.Client
	keyPrefix string
}

func NewEtcdKV(client *clientv3.Client, keyPrefix string) *EtcdKV {
	if keyPrefix == "" {
		keyPrefix = "/secretcore/"
	}
	return &EtcdKV{client: client, keyPrefix: keyPrefix}
}

func (e *EtcdKV) Name() string { return "etcd-kv" }

func (e *EtcdKV) key(id string) string { return e.keyPrefix + id }

func (e *EtcdKV) Put(ctx context.Context, id string, payload []byte) error {
	existing, err := e.client.Get(ctx, e.key(id))
	if err != nil {
		return errUnavailable(e.Name(), err)
	}
	if existing.Count > 0 {
		return errConflict(e.Name(), id)
	}
	_, err = e.client.Put(ctx, e.key(id), base64.StdEncoding.EncodeToString(payload))
	if err != nil {
		return errUnavailable(e.Name(), err)
	}
	return nil
}

func (e *EtcdKV) Get(ctx context.Context, id string) ([]byte, error) {
	resp, err := e.client.Get(ctx, e.key(id))
	if err != nil {
		return nil, errUnavailable(e.Name(), err)
	}
	if len(resp.Kvs) == 0 {
		return nil, errNotFound(e.Name(), id)
	}
	payload, err := base64.StdEncoding.DecodeString(string(resp.Kvs[0].Value))
	if err != nil {
		return nil, errUnavailable(e.Name(), err)
	}
	return payload, nil
}

func (e *EtcdKV) Update(ctx context.Context, id string, payload []byte) error {
	existing, err := e.client.Get(ctx, e.key(id))
	if err != nil {
		return errUnavailable(e.Name(), err)
	}
	if existing.Count == 0 {
		return errNotFound(e.Name(), id)
	}
	_, err = e.client.Put(ctx, e.key(id), base64.StdEncoding.EncodeToString(payload))
	if err != nil {
		return errUnavailable(e.Name(), err)
	}
	return nil
}

func (e *EtcdKV) Delete(ctx context.Context, id string) error {
	_, err := e.client.Delete(ctx, e.key(id))
	if err != nil {
		return errUnavailable(e.Name(), err)
	}
	return nil
}
