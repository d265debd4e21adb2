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
	"github.com/systmms/secretcore/internal/service"
)

func TestCreateUserSecretWritesBackendStoreAndMetadata(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO user_secrets").WillReturnResult(sqlmock.NewResult(1, 1))

	router, err := backendstore.NewRouter("dev", backendstore.NewDevStore())
	require.NoError(t, err)
	engine := crypto.New(fakeKMS{}, "alias/secretcore")
	svc := service.NewUserSecretService(metadata.Open(db), router, engine, authority.New(nil),
		nil, fixedClock{time.Unix(0, 0)}, fixedIDs{"user-secret-1"})

	caller := authority.Caller{DomainID: "domain-a", UserID: "user-1", Role: authority.RoleUser}
	rec, err := svc.Create(context.Background(), caller, service.CreateUserSecretInput{
		Name:      "my-api-key",
		Encrypted: true,
		Data:      map[string]any{"token": "xyz"},
	})
	require.NoError(t, err)
	assert.Equal(t, "user-secret-1", rec.UserSecretID)
	assert.Equal(t, "user-1", rec.UserID)
	assert.True(t, rec.Encrypted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserSecretRejectsEncryptWithoutEngine(t *testing.T) {
	t.Parallel()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	router, err := backendstore.NewRouter("dev", backendstore.NewDevStore())
	require.NoError(t, err)
	svc := service.NewUserSecretService(metadata.Open(db), router, nil, authority.New(nil),
		nil, fixedClock{time.Unix(0, 0)}, fixedIDs{"user-secret-1"})

	caller := authority.Caller{DomainID: "domain-a", UserID: "user-1", Role: authority.RoleUser}
	_, err = svc.Create(context.Background(), caller, service.CreateUserSecretInput{
		Name:      "my-api-key",
		Encrypted: true,
		Data:      map[string]any{"token": "xyz"},
	})
	assert.Error(t, err)
}

func TestGetUserSecretRejectsNonOwner(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"user_secret_id", "name", "schema_id", "tags", "encrypted", "encrypt_options", "user_id", "domain_id", "created_at"}).
		AddRow("user-secret-1", "my-api-key", "", "{}", false, "{}", "user-1", "domain-a", time.Unix(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM user_secrets").WillReturnRows(rows)

	router, err := backendstore.NewRouter("dev", backendstore.NewDevStore())
	require.NoError(t, err)
	svc := service.NewUserSecretService(metadata.Open(db), router, nil, authority.New(nil),
		nil, fixedClock{time.Unix(0, 0)}, fixedIDs{"user-secret-1"})

	caller := authority.Caller{DomainID: "domain-a", UserID: "someone-else", Role: authority.RoleUser}
	_, err = svc.Get(context.Background(), caller, "user-secret-1")
	assert.Error(t, err)
}

func TestCreateUserSecretNeverTouchesBackendStoreOnMetadataFailure(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO user_secrets").WillReturnError(assertErr{"insert failed"})

	devStore := backendstore.NewDevStore()
	router, err := backendstore.NewRouter("dev", devStore)
	require.NoError(t, err)
	engine := crypto.New(fakeKMS{}, "alias/secretcore")
	svc := service.NewUserSecretService(metadata.Open(db), router, engine, authority.New(nil),
		nil, fixedClock{time.Unix(0, 0)}, fixedIDs{"user-secret-1"})

	caller := authority.Caller{DomainID: "domain-a", UserID: "user-1", Role: authority.RoleUser}
	_, err = svc.Create(context.Background(), caller, service.CreateUserSecretInput{
		Name: "my-api-key",
		Data: map[string]any{"token": "xyz"},
	})
	assert.Error(t, err)

	_, getErr := devStore.Get(context.Background(), "user-secret-1")
	assert.Error(t, getErr)
}

func TestCreateUserSecretRollsBackMetadataOnBackendStoreFailure(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO user_secrets").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM user_secrets").WillReturnResult(sqlmock.NewResult(1, 1))

	router, err := backendstore.NewRouter("dev", failingStore{})
	require.NoError(t, err)
	engine := crypto.New(fakeKMS{}, "alias/secretcore")
	svc := service.NewUserSecretService(metadata.Open(db), router, engine, authority.New(nil),
		nil, fixedClock{time.Unix(0, 0)}, fixedIDs{"user-secret-1"})

	caller := authority.Caller{DomainID: "domain-a", UserID: "user-1", Role: authority.RoleUser}
	_, err = svc.Create(context.Background(), caller, service.CreateUserSecretInput{
		Name: "my-api-key",
		Data: map[string]any{"token": "xyz"},
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
