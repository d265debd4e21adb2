package logging_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/systmms/secretcore/internal/logging"
)

func TestSecretStringIsAlwaysRedacted(t *testing.T) {
	t.Parallel()

	s := logging.Secret("super-secret-plaintext")
	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", s))
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%#v", s))
	assert.NotContains(t, fmt.Sprintf("%v", s), "super-secret-plaintext")
}

func TestRedactReplacesKnownSecrets(t *testing.T) {
	t.Parallel()

	out := logging.Redact("token=abcd1234efgh failed", []string{"abcd1234efgh"})
	assert.Equal(t, "token=[REDACTED] failed", out)
}

func TestRedactIgnoresTrivialValues(t *testing.T) {
	t.Parallel()

	out := logging.Redact("code=42", []string{"42", ""})
	assert.Equal(t, "code=42", out)
}
