package crypto_test

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/secretcore/internal/crypto"
)

// fakeKMS is an in-memory KMS that "wraps" a data key by prefixing it, good
// enough to exercise the Engine's canonicalization/AEAD/zeroization logic
// without a real KMS backend.
type fakeKMS struct {
	lastGenContext map[string]string
	lastDecContext map[string]string
}

func (f *fakeKMS) Name() string { return "fake-kms" }

func (f *fakeKMS) GenerateDataKey(ctx context.Context, keyAlias string, context_ map[string]string) ([]byte, []byte, error) {
	f.lastGenContext = context_
	key := make([]byte, 32)
	_, _ = rand.Read(key)
	wrapped := append([]byte("wrapped:"), key...)
	return key, wrapped, nil
}

func (f *fakeKMS) DecryptDataKey(ctx context.Context, keyAlias string, wrappedKey []byte, context_ map[string]string) ([]byte, error) {
	f.lastDecContext = context_
	return wrappedKey[len("wrapped:"):], nil
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	t.Parallel()

	fk := &fakeKMS{}
	engine := crypto.New(fk, "alias/test")
	plaintext := map[string]any{"username": "svc", "password": "hunter2"}
	encCtx := crypto.Context("domain-1", "secret-1")

	bundle, wrappedKey, err := engine.Encrypt(context.Background(), plaintext, encCtx)
	require.NoError(t, err)
	assert.True(t, bundle.Encrypted)
	assert.NotEmpty(t, bundle.EncryptedData)

	decrypted, err := engine.Decrypt(context.Background(), bundle, wrappedKey, encCtx)
	require.NoError(t, err)
	assert.Equal(t, "svc", decrypted["username"])
	assert.Equal(t, "hunter2", decrypted["password"])
}

func TestDecryptFailsOnContextMismatch(t *testing.T) {
	t.Parallel()

	fk := &fakeKMS{}
	engine := crypto.New(fk, "alias/test")
	plaintext := map[string]any{"key": "value"}
	encCtx := crypto.Context("domain-1", "secret-1")

	bundle, wrappedKey, err := engine.Encrypt(context.Background(), plaintext, encCtx)
	require.NoError(t, err)

	wrongCtx := crypto.Context("domain-1", "secret-2")
	_, err = engine.Decrypt(context.Background(), bundle, wrappedKey, wrongCtx)
	assert.Error(t, err)
}

func TestEncryptPassesContextToKMS(t *testing.T) {
	t.Parallel()

	fk := &fakeKMS{}
	engine := crypto.New(fk, "alias/test")
	encCtx := crypto.Context("domain-9", "secret-9")

	_, _, err := engine.Encrypt(context.Background(), map[string]any{"a": "b"}, encCtx)
	require.NoError(t, err)
	assert.Equal(t, encCtx, fk.lastGenContext)
}
