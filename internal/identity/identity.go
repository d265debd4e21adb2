// Package identity is a read-only client for the identity service that owns
// workspace, project, service-account, and trusted-account records
// (SPEC_FULL.md §4.3). This service never stores or mutates that data; it
// only resolves references before encryption-context construction and scope
// checks run.
package identity

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	dserrors "github.com/systmms/secretcore/internal/errors"
)

const component = "identity-adapter"

// Workspace is the subset of workspace fields this service needs.
type Workspace struct {
	ID       string
	DomainID string
	State    string
}

// Project is the subset of project fields this service needs.
type Project struct {
	ID          string
	WorkspaceID string
	DomainID    string
}

// ServiceAccount is the subset of service-account fields this service needs.
type ServiceAccount struct {
	ID          string
	ProjectID   string
	WorkspaceID string
	DomainID    string
}

// TrustedAccount is the subset of trusted-account fields this service needs.
type TrustedAccount struct {
	ID       string
	DomainID string
}

// client is the narrow surface this package needs from a generated identity
// gRPC stub. Narrowing the client down to exactly the methods used, rather
// than depending on the full generated interface, follows the teacher's
// client-interface-narrowing idiom (see internal/kms.kmsClient and
// internal/backendstore.secretsManagerClient) and keeps this
// package unit-testable without a running identity service.
type client interface {
	GetWorkspace(ctx context.Context, in *workspaceRequest) (*workspaceResponse, error)
	GetProject(ctx context.Context, in *projectRequest) (*projectResponse, error)
	GetServiceAccount(ctx context.Context, in *serviceAccountRequest) (*serviceAccountResponse, error)
	GetTrustedAccount(ctx context.Context, in *trustedAccountRequest) (*trustedAccountResponse, error)
}

// Adapter is the identity-service client (SPEC_FULL.md §4.3).
type Adapter struct {
	client client
	conn   *grpc.ClientConn
}

// Config configures the underlying gRPC connection.
type Config struct {
	Endpoint string
	Insecure bool
}

// Dial opens a gRPC connection to the identity service and wraps it in an
// Adapter. The connection is reused for the lifetime of the process, same as
// the teacher's long-lived client pattern for external collaborators.
func Dial(ctx context.Context, cfg Config) (*Adapter, error) {
	creds := credentials.NewTLS(nil)
	var opt grpc.DialOption = grpc.WithTransportCredentials(creds)
	if cfg.Insecure {
		opt = grpc.WithTransportCredentials(insecure.NewCredentials())
	}

	conn, err := grpc.NewClient(cfg.Endpoint, opt)
	if err != nil {
		return nil, dserrors.Wrap(dserrors.KindUpstreamUnavailable, component, err)
	}

	return &Adapter{client: newGeneratedClient(conn), conn: conn}, nil
}

// Close releases the underlying connection.
func (a *Adapter) Close() error {
	if a.conn == nil {
		return nil
	}
	return a.conn.Close()
}

// CheckWorkspace verifies that workspaceID exists under domainID and is
// active. It returns an error rather than a bool so that callers can
// distinguish "workspace inactive" from "identity service unreachable"
// without a second round trip.
func (a *Adapter) CheckWorkspace(ctx context.Context, workspaceID, domainID string) error {
	resp, err := a.client.GetWorkspace(ctx, &workspaceRequest{WorkspaceID: workspaceID, DomainID: domainID})
	if err != nil {
		return dserrors.Wrap(dserrors.KindUpstreamUnavailable, component, err)
	}
	if resp.Workspace.DomainID != domainID {
		return dserrors.New(dserrors.KindNotFound, component, "workspace does not belong to domain")
	}
	if resp.Workspace.State != "ACTIVE" {
		return dserrors.New(dserrors.KindNotFound, component, "workspace is not active")
	}
	return nil
}

// GetProject resolves a project by ID.
func (a *Adapter) GetProject(ctx context.Context, projectID string) (Project, error) {
	resp, err := a.client.GetProject(ctx, &projectRequest{ProjectID: projectID})
	if err != nil {
		return Project{}, dserrors.Wrap(dserrors.KindUpstreamUnavailable, component, err)
	}
	return resp.Project, nil
}

// GetServiceAccount resolves a service account by ID.
func (a *Adapter) GetServiceAccount(ctx context.Context, serviceAccountID, domainID string) (ServiceAccount, error) {
	resp, err := a.client.GetServiceAccount(ctx, &serviceAccountRequest{ServiceAccountID: serviceAccountID, DomainID: domainID})
	if err != nil {
		return ServiceAccount{}, dserrors.Wrap(dserrors.KindUpstreamUnavailable, component, err)
	}
	return resp.ServiceAccount, nil
}

// GetTrustedAccount resolves a trusted account by ID. Trusted accounts back
// TrustedSecret records and must resolve even when the caller only has
// METADATA_ONLY visibility into the secret that references them.
func (a *Adapter) GetTrustedAccount(ctx context.Context, trustedAccountID string) (TrustedAccount, error) {
	resp, err := a.client.GetTrustedAccount(ctx, &trustedAccountRequest{TrustedAccountID: trustedAccountID})
	if err != nil {
		return TrustedAccount{}, dserrors.Wrap(dserrors.KindUpstreamUnavailable, component, err)
	}
	return resp.TrustedAccount, nil
}
