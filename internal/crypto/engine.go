// Package crypto implements the envelope-encryption engine (SPEC_FULL.md
// §4.4): canonical context/plaintext encoding, AES-256-GCM AEAD sealing
// bound to the encryption context as associated data, and the zeroization
// discipline required of every caller that materializes a plaintext data
// key. Grounded on the AES-GCM DataEncryption pattern used elsewhere in the
// envelope-encryption ecosystem, generalized here to thread the encryption
// context through as AEAD associated data instead of leaving it nil.
package crypto

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"

	dserrors "github.com/systmms/secretcore/internal/errors"
	"github.com/systmms/secretcore/internal/kms"
	"github.com/systmms/secretcore/internal/model"
	"github.com/systmms/secretcore/internal/secure"
)

const (
	nonceSize  = 12
	keyAlgName = "AES_256_GCM"
)

// Engine performs envelope encryption/decryption against a configured KMS
// service. It owns no identifiers and persists nothing; callers (the
// Lifecycle Coordinator) are responsible for storing the returned bundle
// and wrapped key.
type Engine struct {
	kms      kms.Service
	keyAlias string
}

func New(svc kms.Service, keyAlias string) *Engine {
	return &Engine{kms: svc, keyAlias: keyAlias}
}

// Context builds the canonical, insertion-ordered encryption context for a
// record: {domain_id, secret_id}. No other field is ever mixed in — see
// SPEC_FULL.md §9 on the token-in-context bug this fixes.
func Context(domainID, recordID string) map[string]string {
	return map[string]string{"domain_id": domainID, "secret_id": recordID}
}

// canonicalize deterministically JSON-encodes a string-keyed map (Go's
// encoding/json already sorts map keys) and base64-encodes the result, so
// the same logical context always produces identical AAD bytes.
func canonicalize(m map[string]string) ([]byte, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	encoded := base64.StdEncoding.EncodeToString(raw)
	return []byte(encoded), nil
}

// Encrypt seals plaintext under a freshly generated data key, binding
// encryptContext as AEAD associated data. It returns the wire-ready bundle
// and the KMS-wrapped data key to persist alongside it.
func (e *Engine) Encrypt(ctx context.Context, plaintext map[string]any, encryptContext map[string]string) (model.EnvelopeBundle, []byte, error) {
	plaintextJSON, err := json.Marshal(plaintext)
	if err != nil {
		return model.EnvelopeBundle{}, nil, dserrors.Wrap(dserrors.KindRequiredParameter, "crypto", err)
	}
	plaintextB64 := base64.StdEncoding.EncodeToString(plaintextJSON)

	aad, err := canonicalize(encryptContext)
	if err != nil {
		return model.EnvelopeBundle{}, nil, dserrors.Wrap(dserrors.KindWrongConfiguration, "crypto", err)
	}

	dek, wrappedKey, err := e.kms.GenerateDataKey(ctx, e.keyAlias, encryptContext)
	if err != nil {
		return model.EnvelopeBundle{}, nil, err
	}

	buf, err := secure.NewSecureBuffer(dek)
	if err != nil {
		return model.EnvelopeBundle{}, nil, dserrors.Wrap(dserrors.KindInternal, "crypto", err)
	}
	defer buf.Destroy()

	locked, err := buf.Open()
	if err != nil {
		return model.EnvelopeBundle{}, nil, dserrors.Wrap(dserrors.KindInternal, "crypto", err)
	}
	defer locked.Destroy()

	aead, err := newAEAD(locked.Bytes())
	if err != nil {
		return model.EnvelopeBundle{}, nil, dserrors.Wrap(dserrors.KindInternal, "crypto", err)
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return model.EnvelopeBundle{}, nil, dserrors.Wrap(dserrors.KindInternal, "crypto", err)
	}

	ciphertext := aead.Seal(nil, nonce, []byte(plaintextB64), aad)

	bundle := model.EnvelopeBundle{
		Encrypted: true,
		EncryptOptions: model.EncryptOptions{
			EncryptType:      e.kms.Name(),
			EncryptAlgorithm: keyAlgName,
			Nonce:            base64.StdEncoding.EncodeToString(nonce),
			EncryptContext:   string(aad),
			EncryptDataKey:   base64.StdEncoding.EncodeToString(wrappedKey),
		},
		EncryptedData: base64.StdEncoding.EncodeToString(ciphertext),
	}
	return bundle, wrappedKey, nil
}

// Decrypt opens a bundle produced by Encrypt, using the same encryptContext
// that produced it. Any mismatch in context, nonce, or ciphertext fails AEAD
// authentication and returns ErrDecryptFailed.
func (e *Engine) Decrypt(ctx context.Context, bundle model.EnvelopeBundle, wrappedKey []byte, encryptContext map[string]string) (map[string]any, error) {
	aad, err := canonicalize(encryptContext)
	if err != nil {
		return nil, dserrors.Wrap(dserrors.KindWrongConfiguration, "crypto", err)
	}

	nonce, err := base64.StdEncoding.DecodeString(bundle.EncryptOptions.Nonce)
	if err != nil {
		return nil, dserrors.Wrap(dserrors.KindDecryptFailed, "crypto", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(bundle.EncryptedData)
	if err != nil {
		return nil, dserrors.Wrap(dserrors.KindDecryptFailed, "crypto", err)
	}

	dek, err := e.kms.DecryptDataKey(ctx, e.keyAlias, wrappedKey, encryptContext)
	if err != nil {
		return nil, err
	}

	buf, err := secure.NewSecureBuffer(dek)
	if err != nil {
		return nil, dserrors.Wrap(dserrors.KindInternal, "crypto", err)
	}
	defer buf.Destroy()

	locked, err := buf.Open()
	if err != nil {
		return nil, dserrors.Wrap(dserrors.KindInternal, "crypto", err)
	}
	defer locked.Destroy()

	aead, err := newAEAD(locked.Bytes())
	if err != nil {
		return nil, dserrors.Wrap(dserrors.KindInternal, "crypto", err)
	}

	plaintextB64, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, dserrors.New(dserrors.KindDecryptFailed, "crypto", "AEAD authentication failed")
	}

	plaintextJSON, err := base64.StdEncoding.DecodeString(string(plaintextB64))
	if err != nil {
		return nil, dserrors.Wrap(dserrors.KindDecryptFailed, "crypto", err)
	}

	var out map[string]any
	if err := json.Unmarshal(plaintextJSON, &out); err != nil {
		return nil, dserrors.Wrap(dserrors.KindDecryptFailed, "crypto", err)
	}
	return out, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
