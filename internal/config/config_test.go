package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/secretcore/internal/config"
	dserrors "github.com/systmms/secretcore/internal/errors"
)

const validYAML = `
backend: AWS_SECRETS_MANAGER
encrypt: true
encrypt_type: AWS_KMS
connectors:
  AWS_SECRETS_MANAGER:
    region: us-east-1
  AWS_KMS:
    region: us-east-1
    key_alias: alias/secretcore
token: system-token
databases:
  default:
    driver: postgres
    dsn: postgres://localhost/secretcore
log:
  debug: false
  filters:
    masking:
      rules: [data, encrypt_data_key]
metrics:
  listen_addr: ":9090"
grpc:
  listen_addr: ":8443"
identity:
  endpoint: identity.internal:443
`

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "secretcore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadParsesValidConfiguration(t *testing.T) {
	path := writeTempConfig(t, validYAML)

	def, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "AWS_SECRETS_MANAGER", def.Backend)
	assert.True(t, def.Encrypt)
	assert.Equal(t, "AWS_KMS", def.EncryptType)
	assert.Equal(t, "us-east-1", def.Connectors["AWS_KMS"].Region)
	assert.Equal(t, []string{"data", "encrypt_data_key"}, def.Log.Filters.Masking.Rules)
	assert.Equal(t, ":8443", def.GRPC.ListenAddr)
}

func TestLoadMissingFileReturnsWrongConfiguration(t *testing.T) {
	_, err := config.Load("/nonexistent/secretcore.yaml")
	require.Error(t, err)
	assert.Equal(t, dserrors.KindWrongConfiguration, dserrors.KindOf(err))
}

func TestLoadRejectsMissingBackend(t *testing.T) {
	path := writeTempConfig(t, `
databases:
  default:
    driver: postgres
    dsn: postgres://localhost/secretcore
grpc:
  listen_addr: ":8443"
`)

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Equal(t, dserrors.KindRequiredParameter, dserrors.KindOf(err))
}

func TestLoadRejectsEncryptWithoutEncryptType(t *testing.T) {
	path := writeTempConfig(t, `
backend: DEV_STORE
encrypt: true
connectors:
  DEV_STORE: {}
databases:
  default:
    driver: postgres
    dsn: postgres://localhost/secretcore
grpc:
  listen_addr: ":8443"
`)

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Equal(t, dserrors.KindRequiredParameter, dserrors.KindOf(err))
}

func TestLoadRejectsBackendWithoutConnector(t *testing.T) {
	path := writeTempConfig(t, `
backend: AWS_SECRETS_MANAGER
connectors: {}
databases:
  default:
    driver: postgres
    dsn: postgres://localhost/secretcore
grpc:
  listen_addr: ":8443"
`)

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Equal(t, dserrors.KindBackendNotDefined, dserrors.KindOf(err))
}

func TestConnectorReturnsNamedEntry(t *testing.T) {
	path := writeTempConfig(t, validYAML)
	def, err := config.Load(path)
	require.NoError(t, err)

	conn, err := def.Connector("AWS_KMS")
	require.NoError(t, err)
	assert.Equal(t, "alias/secretcore", conn.KeyAlias)
}

func TestConnectorMissingReturnsBackendNotDefined(t *testing.T) {
	path := writeTempConfig(t, validYAML)
	def, err := config.Load(path)
	require.NoError(t, err)

	_, err = def.Connector("VAULT_TRANSIT")
	require.Error(t, err)
	assert.Equal(t, dserrors.KindBackendNotDefined, dserrors.KindOf(err))
}
