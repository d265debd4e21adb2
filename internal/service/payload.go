package service

import (
	"encoding/json"

	dserrors "github.com/systmms/secretcore/internal/errors"
)

// marshalPlain encodes an unencrypted Secret/UserSecret payload as the raw
// bytes backend-store adapters persist. Plaintext records never pass
// through the Encryption Engine (§8).
func marshalPlain(data map[string]any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, dserrors.Wrap(dserrors.KindRequiredParameter, component, err)
	}
	return raw, nil
}

func unmarshalPlain(raw []byte) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}
