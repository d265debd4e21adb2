package identity

import (
	"context"

	"google.golang.org/grpc"
)

// The request/response types and generatedClient below stand in for a
// protoc-generated client stub. They are invoked over the same
// *grpc.ClientConn.Invoke path codegen produces, so swapping in a real
// generated package later is a one-file change confined to this file.

type workspaceRequest struct {
	WorkspaceID string
	DomainID    string
}

type workspaceResponse struct {
	Workspace Workspace
}

type projectRequest struct {
	ProjectID string
}

type projectResponse struct {
	Project Project
}

type serviceAccountRequest struct {
	ServiceAccountID string
	DomainID         string
}

type serviceAccountResponse struct {
	ServiceAccount ServiceAccount
}

type trustedAccountRequest struct {
	TrustedAccountID string
}

type trustedAccountResponse struct {
	TrustedAccount TrustedAccount
}

const (
	methodGetWorkspace      = "/spaceone.api.identity.v2.WorkspaceService/Get"
	methodGetProject        = "/spaceone.api.identity.v2.ProjectService/Get"
	methodGetServiceAccount = "/spaceone.api.identity.v2.ServiceAccountService/Get"
	methodGetTrustedAccount = "/spaceone.api.identity.v2.TrustedAccountService/Get"
)

type generatedClient struct {
	conn *grpc.ClientConn
}

func newGeneratedClient(conn *grpc.ClientConn) *generatedClient {
	return &generatedClient{conn: conn}
}

func (c *generatedClient) GetWorkspace(ctx context.Context, in *workspaceRequest) (*workspaceResponse, error) {
	out := new(workspaceResponse)
	if err := c.conn.Invoke(ctx, methodGetWorkspace, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *generatedClient) GetProject(ctx context.Context, in *projectRequest) (*projectResponse, error) {
	out := new(projectResponse)
	if err := c.conn.Invoke(ctx, methodGetProject, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *generatedClient) GetServiceAccount(ctx context.Context, in *serviceAccountRequest) (*serviceAccountResponse, error) {
	out := new(serviceAccountResponse)
	if err := c.conn.Invoke(ctx, methodGetServiceAccount, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *generatedClient) GetTrustedAccount(ctx context.Context, in *trustedAccountRequest) (*trustedAccountResponse, error) {
	out := new(trustedAccountResponse)
	if err := c.conn.Invoke(ctx, methodGetTrustedAccount, in, out); err != nil {
		return nil, err
	}
	return out, nil
}
