package rpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dserrors "github.com/systmms/secretcore/internal/errors"
	"github.com/systmms/secretcore/internal/model"
)

// fakeTrustedSecretServiceServer lets handler dispatch be tested without
// wiring a real *service.TrustedSecretService.
type fakeTrustedSecretServiceServer struct {
	createReq *CreateTrustedSecretRequest
	createErr error
}

func (f *fakeTrustedSecretServiceServer) Create(ctx context.Context, req *CreateTrustedSecretRequest) (*TrustedSecretResponse, error) {
	f.createReq = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &TrustedSecretResponse{TrustedSecret: model.TrustedSecret{TrustedSecretID: "trusted-1", Name: req.Name}}, nil
}

func (f *fakeTrustedSecretServiceServer) Get(ctx context.Context, req *GetTrustedSecretRequest) (*TrustedSecretResponse, error) {
	return &TrustedSecretResponse{}, nil
}

func (f *fakeTrustedSecretServiceServer) Update(ctx context.Context, req *UpdateTrustedSecretRequest) (*TrustedSecretResponse, error) {
	return &TrustedSecretResponse{}, nil
}

func (f *fakeTrustedSecretServiceServer) Delete(ctx context.Context, req *DeleteTrustedSecretRequest) (*DeleteTrustedSecretResponse, error) {
	return &DeleteTrustedSecretResponse{}, nil
}

func (f *fakeTrustedSecretServiceServer) List(ctx context.Context, req *ListTrustedSecretsRequest) (*ListTrustedSecretsResponse, error) {
	return &ListTrustedSecretsResponse{}, nil
}

func (f *fakeTrustedSecretServiceServer) Stat(ctx context.Context, req *StatTrustedSecretsRequest) (*StatTrustedSecretsResponse, error) {
	return &StatTrustedSecretsResponse{}, nil
}

func TestTrustedSecretCreateHandlerDecodesAndDispatches(t *testing.T) {
	fake := &fakeTrustedSecretServiceServer{}
	dec := func(v interface{}) error {
		req := v.(*CreateTrustedSecretRequest)
		req.Name = "root-account-key"
		return nil
	}

	resp, err := trustedSecretCreateHandler(fake, context.Background(), dec, nil)
	require.NoError(t, err)

	trustedResp := resp.(*TrustedSecretResponse)
	assert.Equal(t, "trusted-1", trustedResp.TrustedSecret.TrustedSecretID)
	assert.Equal(t, "root-account-key", fake.createReq.Name)
}

func TestTrustedSecretCreateHandlerPropagatesServiceError(t *testing.T) {
	fake := &fakeTrustedSecretServiceServer{createErr: dserrors.New(dserrors.KindNameConflict, "trusted-secret-service", "name already in use")}
	dec := func(v interface{}) error { return nil }

	_, err := trustedSecretCreateHandler(fake, context.Background(), dec, nil)
	require.Error(t, err)
	assert.Equal(t, dserrors.KindNameConflict, dserrors.KindOf(err))
}

func TestTrustedSecretServerReturnsErrorWithoutCallerInContext(t *testing.T) {
	server := NewTrustedSecretServer(nil)

	_, err := server.Create(context.Background(), &CreateTrustedSecretRequest{})
	require.Error(t, err)
	assert.Equal(t, dserrors.KindPermissionDenied, dserrors.KindOf(err))
}
