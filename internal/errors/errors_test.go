package errors_test

import (
	goerrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/systmms/secretcore/internal/errors"
)

func TestErrorFormatting(t *testing.T) {
	t.Parallel()

	err := errors.New(errors.KindNotFound, "metadata", "secret xyz not found")
	assert.Contains(t, err.Error(), "metadata")
	assert.Contains(t, err.Error(), string(errors.KindNotFound))
	assert.Contains(t, err.Error(), "secret xyz not found")
}

func TestWrapPreservesUnwrap(t *testing.T) {
	t.Parallel()

	root := fmt.Errorf("connection refused")
	wrapped := errors.Wrap(errors.KindStoreUnavailable, "backend-store", root)

	assert.True(t, goerrors.Is(wrapped, root))
	assert.Equal(t, root, wrapped.Unwrap())
}

func TestIsMatchesOnKindOnly(t *testing.T) {
	t.Parallel()

	a := errors.New(errors.KindNotFound, "metadata", "secret xyz not found")
	b := errors.New(errors.KindNotFound, "backend-store", "different component, different message")

	assert.True(t, goerrors.Is(a, errors.ErrNotFound))
	assert.True(t, goerrors.Is(b, errors.ErrNotFound))
	assert.False(t, goerrors.Is(a, errors.ErrPermissionDenied))
}

func TestKindOfDefaultsToInternal(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.KindInternal, errors.KindOf(fmt.Errorf("plain error")))
	assert.Equal(t, errors.KindNotFound, errors.KindOf(errors.New(errors.KindNotFound, "c", "m")))
}

func TestRetryableClassification(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.Retryable(errors.New(errors.KindKMSUnavailable, "kms", "timeout")))
	assert.True(t, errors.Retryable(errors.New(errors.KindStoreUnavailable, "store", "timeout")))
	assert.False(t, errors.Retryable(errors.New(errors.KindNotFound, "metadata", "missing")))
	assert.False(t, errors.Retryable(fmt.Errorf("plain error")))
}
