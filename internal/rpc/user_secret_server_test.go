package rpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dserrors "github.com/systmms/secretcore/internal/errors"
	"github.com/systmms/secretcore/internal/model"
)

// fakeUserSecretServiceServer lets handler dispatch be tested without
// wiring a real *service.UserSecretService.
type fakeUserSecretServiceServer struct {
	createReq *CreateUserSecretRequest
	createErr error
	getData   *GetUserSecretDataResponse
}

func (f *fakeUserSecretServiceServer) Create(ctx context.Context, req *CreateUserSecretRequest) (*UserSecretResponse, error) {
	f.createReq = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &UserSecretResponse{UserSecret: model.UserSecret{UserSecretID: "user-secret-1", Name: req.Name}}, nil
}

func (f *fakeUserSecretServiceServer) Get(ctx context.Context, req *GetUserSecretRequest) (*UserSecretResponse, error) {
	return &UserSecretResponse{}, nil
}

func (f *fakeUserSecretServiceServer) GetData(ctx context.Context, req *GetUserSecretRequest) (*GetUserSecretDataResponse, error) {
	return f.getData, nil
}

func (f *fakeUserSecretServiceServer) Update(ctx context.Context, req *UpdateUserSecretRequest) (*UserSecretResponse, error) {
	return &UserSecretResponse{}, nil
}

func (f *fakeUserSecretServiceServer) UpdateData(ctx context.Context, req *UpdateUserSecretDataRequest) (*UserSecretResponse, error) {
	return &UserSecretResponse{}, nil
}

func (f *fakeUserSecretServiceServer) Delete(ctx context.Context, req *DeleteUserSecretRequest) (*DeleteUserSecretResponse, error) {
	return &DeleteUserSecretResponse{}, nil
}

func (f *fakeUserSecretServiceServer) List(ctx context.Context, req *ListUserSecretsRequest) (*ListUserSecretsResponse, error) {
	return &ListUserSecretsResponse{}, nil
}

func (f *fakeUserSecretServiceServer) Stat(ctx context.Context, req *StatUserSecretsRequest) (*StatUserSecretsResponse, error) {
	return &StatUserSecretsResponse{}, nil
}

func TestUserSecretCreateHandlerDecodesAndDispatches(t *testing.T) {
	fake := &fakeUserSecretServiceServer{}
	dec := func(v interface{}) error {
		req := v.(*CreateUserSecretRequest)
		req.Name = "my-api-key"
		return nil
	}

	resp, err := userSecretCreateHandler(fake, context.Background(), dec, nil)
	require.NoError(t, err)

	userResp := resp.(*UserSecretResponse)
	assert.Equal(t, "user-secret-1", userResp.UserSecret.UserSecretID)
	assert.Equal(t, "my-api-key", fake.createReq.Name)
}

func TestUserSecretCreateHandlerPropagatesServiceError(t *testing.T) {
	fake := &fakeUserSecretServiceServer{createErr: dserrors.New(dserrors.KindNameConflict, "user-secret-service", "name already in use")}
	dec := func(v interface{}) error { return nil }

	_, err := userSecretCreateHandler(fake, context.Background(), dec, nil)
	require.Error(t, err)
	assert.Equal(t, dserrors.KindNameConflict, dserrors.KindOf(err))
}

func TestUserSecretGetDataHandlerReturnsEnvelopeBundle(t *testing.T) {
	fake := &fakeUserSecretServiceServer{getData: &GetUserSecretDataResponse{Bundle: model.EnvelopeBundle{Encrypted: true, EncryptedData: "ciphertext"}}}
	dec := func(v interface{}) error { return nil }

	resp, err := userSecretGetDataHandler(fake, context.Background(), dec, nil)
	require.NoError(t, err)

	dataResp := resp.(*GetUserSecretDataResponse)
	assert.True(t, dataResp.Bundle.Encrypted)
	assert.Equal(t, "ciphertext", dataResp.Bundle.EncryptedData)
}

func TestUserSecretServerReturnsErrorWithoutCallerInContext(t *testing.T) {
	server := NewUserSecretServer(nil)

	_, err := server.Create(context.Background(), &CreateUserSecretRequest{})
	require.Error(t, err)
	assert.Equal(t, dserrors.KindPermissionDenied, dserrors.KindOf(err))
}
