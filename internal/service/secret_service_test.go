package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/secretcore/internal/authority"
	"github.com/systmms/secretcore/internal/backendstore"
	"github.com/systmms/secretcore/internal/crypto"
	"github.com/systmms/secretcore/internal/metadata"
	"github.com/systmms/secretcore/internal/model"
	"github.com/systmms/secretcore/internal/service"
)

type fakeKMS struct{}

func (fakeKMS) Name() string { return "FAKE_KMS" }

func (fakeKMS) GenerateDataKey(ctx context.Context, keyAlias string, context_ map[string]string) ([]byte, []byte, error) {
	key := make([]byte, 32)
	return key, []byte("wrapped:" + keyAlias), nil
}

func (fakeKMS) DecryptDataKey(ctx context.Context, keyAlias string, wrappedKey []byte, context_ map[string]string) ([]byte, error) {
	return make([]byte, 32), nil
}

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

type fixedIDs struct{ id string }

func (f fixedIDs) NewID() string { return f.id }

func TestCreateSecretRejectsUnauthorizedWrite(t *testing.T) {
	t.Parallel()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	router, err := backendstore.NewRouter("dev", backendstore.NewDevStore())
	require.NoError(t, err)
	engine := crypto.New(fakeKMS{}, "alias/secretcore")
	svc := service.NewSecretService(metadata.Open(db), router, engine, authority.New(nil),
		nil, fixedClock{time.Unix(0, 0)}, fixedIDs{"secret-1"})

	caller := authority.Caller{DomainID: "domain-a", Role: authority.RoleUser}
	_, err = svc.Create(context.Background(), caller, service.CreateSecretInput{
		Name:          "db-password",
		ResourceGroup: model.ResourceGroupDomain,
		Data:          map[string]any{"password": "hunter2"},
	})
	assert.Error(t, err)
}

func TestCreateSecretWritesBackendStoreAndMetadata(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO secrets").WillReturnResult(sqlmock.NewResult(1, 1))

	router, err := backendstore.NewRouter("dev", backendstore.NewDevStore())
	require.NoError(t, err)
	engine := crypto.New(fakeKMS{}, "alias/secretcore")
	svc := service.NewSecretService(metadata.Open(db), router, engine, authority.New(nil),
		nil, fixedClock{time.Unix(0, 0)}, fixedIDs{"secret-1"})

	caller := authority.Caller{DomainID: "domain-a", WorkspaceID: "ws-1", Role: authority.RoleDomainAdmin}
	rec, err := svc.Create(context.Background(), caller, service.CreateSecretInput{
		Name:          "db-password",
		ResourceGroup: model.ResourceGroupDomain,
		Encrypted:     true,
		Data:          map[string]any{"password": "hunter2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "secret-1", rec.SecretID)
	assert.True(t, rec.Encrypted)
	assert.Equal(t, "FAKE_KMS", rec.EncryptOptions.EncryptType)
	assert.Equal(t, model.Wildcard, rec.WorkspaceID, "a DOMAIN-scoped secret has no workspace of its own")
	assert.Equal(t, model.Wildcard, rec.ProjectID, "a DOMAIN-scoped secret has no project of its own")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSecretNeverTouchesBackendStoreOnMetadataFailure(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO secrets").WillReturnError(assertErr{"insert failed"})

	devStore := backendstore.NewDevStore()
	router, err := backendstore.NewRouter("dev", devStore)
	require.NoError(t, err)
	engine := crypto.New(fakeKMS{}, "alias/secretcore")
	svc := service.NewSecretService(metadata.Open(db), router, engine, authority.New(nil),
		nil, fixedClock{time.Unix(0, 0)}, fixedIDs{"secret-1"})

	caller := authority.Caller{DomainID: "domain-a", WorkspaceID: "ws-1", Role: authority.RoleDomainAdmin}
	_, err = svc.Create(context.Background(), caller, service.CreateSecretInput{
		Name:          "db-password",
		ResourceGroup: model.ResourceGroupDomain,
		Data:          map[string]any{"password": "hunter2"},
	})
	assert.Error(t, err)

	_, getErr := devStore.Get(context.Background(), "secret-1")
	assert.Error(t, getErr)
}

func TestCreateSecretRollsBackMetadataOnBackendStoreFailure(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO secrets").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM secrets").WillReturnResult(sqlmock.NewResult(1, 1))

	router, err := backendstore.NewRouter("dev", failingStore{})
	require.NoError(t, err)
	engine := crypto.New(fakeKMS{}, "alias/secretcore")
	svc := service.NewSecretService(metadata.Open(db), router, engine, authority.New(nil),
		nil, fixedClock{time.Unix(0, 0)}, fixedIDs{"secret-1"})

	caller := authority.Caller{DomainID: "domain-a", WorkspaceID: "ws-1", Role: authority.RoleDomainAdmin}
	_, err = svc.Create(context.Background(), caller, service.CreateSecretInput{
		Name:          "db-password",
		ResourceGroup: model.ResourceGroupDomain,
		Data:          map[string]any{"password": "hunter2"},
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// failingStore is a backend-store that always fails Put, used to exercise
// the metadata rollback path when the backend-store write fails.
type failingStore struct{}

func (failingStore) Name() string { return "failing" }

func (failingStore) Put(ctx context.Context, id string, payload []byte) error {
	return assertErr{"backend store unavailable"}
}

func (failingStore) Get(ctx context.Context, id string) ([]byte, error) {
	return nil, assertErr{"not found"}
}

func (failingStore) Update(ctx context.Context, id string, payload []byte) error {
	return assertErr{"backend store unavailable"}
}

func (failingStore) Delete(ctx context.Context, id string) error {
	return nil
}

func TestCreateSecretRejectsEncryptionMismatchWithTrustedSecret(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"trusted_secret_id", "name", "schema_id", "provider", "tags", "encrypted", "encrypt_options",
		"trusted_account_id", "resource_group", "workspace_id", "domain_id", "created_at",
	}).AddRow("trusted-1", "root-account-key", "", "", []byte("{}"), true,
		[]byte(`{"encrypt_algorithm":"AES_256_GCM"}`), "account-1", "DOMAIN", "*", "domain-a", time.Unix(0, 0))
	mock.ExpectQuery("SELECT .* FROM trusted_secrets WHERE trusted_secret_id").WillReturnRows(rows)

	router, err := backendstore.NewRouter("dev", backendstore.NewDevStore())
	require.NoError(t, err)
	engine := crypto.New(fakeKMS{}, "alias/secretcore")
	svc := service.NewSecretService(metadata.Open(db), router, engine, authority.New(nil),
		nil, fixedClock{time.Unix(0, 0)}, fixedIDs{"secret-1"})

	caller := authority.Caller{DomainID: "domain-a", WorkspaceID: "ws-1", Role: authority.RoleDomainAdmin}
	_, err = svc.Create(context.Background(), caller, service.CreateSecretInput{
		Name:            "db-password",
		ResourceGroup:   model.ResourceGroupDomain,
		TrustedSecretID: "trusted-1",
		Encrypted:       false,
		Data:            map[string]any{"password": "hunter2"},
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type assertErr struct{ msg string }

func (e assertErr) Error() string { return e.msg }
