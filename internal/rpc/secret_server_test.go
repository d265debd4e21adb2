package rpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/systmms/secretcore/internal/authority"
	dserrors "github.com/systmms/secretcore/internal/errors"
	"github.com/systmms/secretcore/internal/model"
)

// fakeSecretServiceServer lets handler dispatch be tested without wiring a
// real *service.SecretService and its backend-store/metadata dependencies.
type fakeSecretServiceServer struct {
	createReq *CreateSecretRequest
	createErr error
	getResp   *SecretResponse
}

func (f *fakeSecretServiceServer) Create(ctx context.Context, req *CreateSecretRequest) (*SecretResponse, error) {
	f.createReq = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &SecretResponse{Secret: model.Secret{SecretID: "secret-1", Name: req.Name}}, nil
}

func (f *fakeSecretServiceServer) Get(ctx context.Context, req *GetSecretRequest) (*SecretResponse, error) {
	return f.getResp, nil
}

func (f *fakeSecretServiceServer) GetData(ctx context.Context, req *GetSecretRequest) (*GetSecretDataResponse, error) {
	return &GetSecretDataResponse{}, nil
}

func (f *fakeSecretServiceServer) Update(ctx context.Context, req *UpdateSecretRequest) (*SecretResponse, error) {
	return &SecretResponse{}, nil
}

func (f *fakeSecretServiceServer) UpdateData(ctx context.Context, req *UpdateSecretDataRequest) (*SecretResponse, error) {
	return &SecretResponse{}, nil
}

func (f *fakeSecretServiceServer) Delete(ctx context.Context, req *DeleteSecretRequest) (*DeleteSecretResponse, error) {
	return &DeleteSecretResponse{}, nil
}

func (f *fakeSecretServiceServer) List(ctx context.Context, req *ListSecretsRequest) (*ListSecretsResponse, error) {
	return &ListSecretsResponse{}, nil
}

func (f *fakeSecretServiceServer) Stat(ctx context.Context, req *StatSecretsRequest) (*StatSecretsResponse, error) {
	return &StatSecretsResponse{}, nil
}

func TestSecretCreateHandlerDecodesAndDispatches(t *testing.T) {
	fake := &fakeSecretServiceServer{}
	dec := func(v interface{}) error {
		req := v.(*CreateSecretRequest)
		req.Name = "db-password"
		return nil
	}

	resp, err := secretCreateHandler(fake, context.Background(), dec, nil)
	require.NoError(t, err)

	secretResp := resp.(*SecretResponse)
	assert.Equal(t, "secret-1", secretResp.Secret.SecretID)
	assert.Equal(t, "db-password", fake.createReq.Name)
}

func TestSecretCreateHandlerPropagatesServiceError(t *testing.T) {
	fake := &fakeSecretServiceServer{createErr: dserrors.New(dserrors.KindNameConflict, "secret-service", "name already in use")}
	dec := func(v interface{}) error { return nil }

	_, err := secretCreateHandler(fake, context.Background(), dec, nil)
	require.Error(t, err)
	assert.Equal(t, dserrors.KindNameConflict, dserrors.KindOf(err))
}

func TestSecretServerReturnsErrorWithoutCallerInContext(t *testing.T) {
	server := NewSecretServer(nil)

	_, err := server.Create(context.Background(), &CreateSecretRequest{})
	require.Error(t, err)
	assert.Equal(t, dserrors.KindPermissionDenied, dserrors.KindOf(err))
}

func TestCallerFromContextRoundTrips(t *testing.T) {
	caller := authority.Caller{DomainID: "domain-1", Role: authority.RoleUser}
	ctx := context.WithValue(context.Background(), callerContextKey{}, caller)

	got, ok := CallerFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, caller, got)
}

func TestToStatusErrorMapsNotFoundKind(t *testing.T) {
	err := dserrors.New(dserrors.KindNotFound, "secret-service", "secret not found")

	statusErr := toStatusError(err)
	st, ok := status.FromError(statusErr)
	require.True(t, ok)
	assert.Equal(t, codes.NotFound, st.Code())
}

func TestToStatusErrorDefaultsUnknownErrorToInternal(t *testing.T) {
	statusErr := toStatusError(assertErr("boom"))
	st, ok := status.FromError(statusErr)
	require.True(t, ok)
	assert.Equal(t, codes.Internal, st.Code())
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
