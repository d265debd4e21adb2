package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	workspace      *workspaceResponse
	project        *projectResponse
	serviceAccount *serviceAccountResponse
	trustedAccount *trustedAccountResponse
	err            error
}

func (f *fakeClient) GetWorkspace(ctx context.Context, in *workspaceRequest) (*workspaceResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.workspace, nil
}

func (f *fakeClient) GetProject(ctx context.Context, in *projectRequest) (*projectResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.project, nil
}

func (f *fakeClient) GetServiceAccount(ctx context.Context, in *serviceAccountRequest) (*serviceAccountResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.serviceAccount, nil
}

func (f *fakeClient) GetTrustedAccount(ctx context.Context, in *trustedAccountRequest) (*trustedAccountResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.trustedAccount, nil
}

func TestCheckWorkspaceRejectsDomainMismatch(t *testing.T) {
	t.Parallel()
	a := &Adapter{client: &fakeClient{workspace: &workspaceResponse{
		Workspace: Workspace{ID: "ws-1", DomainID: "domain-a", State: "ACTIVE"},
	}}}

	err := a.CheckWorkspace(context.Background(), "ws-1", "domain-b")
	assert.Error(t, err)
}

func TestCheckWorkspaceRejectsInactive(t *testing.T) {
	t.Parallel()
	a := &Adapter{client: &fakeClient{workspace: &workspaceResponse{
		Workspace: Workspace{ID: "ws-1", DomainID: "domain-a", State: "DELETED"},
	}}}

	err := a.CheckWorkspace(context.Background(), "ws-1", "domain-a")
	assert.Error(t, err)
}

func TestCheckWorkspaceAcceptsActiveMatchingDomain(t *testing.T) {
	t.Parallel()
	a := &Adapter{client: &fakeClient{workspace: &workspaceResponse{
		Workspace: Workspace{ID: "ws-1", DomainID: "domain-a", State: "ACTIVE"},
	}}}

	require.NoError(t, a.CheckWorkspace(context.Background(), "ws-1", "domain-a"))
}

func TestGetProjectWrapsUpstreamError(t *testing.T) {
	t.Parallel()
	a := &Adapter{client: &fakeClient{err: errors.New("unreachable")}}

	_, err := a.GetProject(context.Background(), "proj-1")
	assert.Error(t, err)
}

func TestGetTrustedAccountReturnsRecord(t *testing.T) {
	t.Parallel()
	a := &Adapter{client: &fakeClient{trustedAccount: &trustedAccountResponse{
		TrustedAccount: TrustedAccount{ID: "ta-1", DomainID: "domain-a"},
	}}}

	got, err := a.GetTrustedAccount(context.Background(), "ta-1")
	require.NoError(t, err)
	assert.Equal(t, "domain-a", got.DomainID)
}
