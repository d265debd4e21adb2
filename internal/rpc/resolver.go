package rpc

import (
	"context"
	"strings"

	"github.com/systmms/secretcore/internal/authority"
	dserrors "github.com/systmms/secretcore/internal/errors"
	"github.com/systmms/secretcore/internal/identity"
)

// IdentityTokenResolver implements TokenResolver against the Identity
// Adapter (C3). The original platform's common authentication middleware
// is outside this service's scope (§1 treats only workspace/project/
// service-account lookups as the identity collaborator's job), so the
// token carries its claims directly as a colon-separated
// "domain_id:workspace_id:user_id:role" quadruple rather than a decoded
// JWT — a deliberate, documented simplification over real token
// verification. CheckWorkspace still confirms the claimed workspace is
// active and belongs to the claimed domain before the scope is trusted.
type IdentityTokenResolver struct {
	identity *identity.Adapter
}

func NewIdentityTokenResolver(adapter *identity.Adapter) *IdentityTokenResolver {
	return &IdentityTokenResolver{identity: adapter}
}

func (r *IdentityTokenResolver) Resolve(ctx context.Context, token string) (authority.Caller, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 4 {
		return authority.Caller{}, dserrors.New(dserrors.KindPermissionDenied, "rpc", "malformed authorization token")
	}
	domainID, workspaceID, userID, role := parts[0], parts[1], parts[2], parts[3]

	if workspaceID != "" {
		if err := r.identity.CheckWorkspace(ctx, workspaceID, domainID); err != nil {
			return authority.Caller{}, err
		}
	}

	return authority.Caller{
		DomainID:    domainID,
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        authority.Role(role),
	}, nil
}
