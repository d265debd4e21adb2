// Package authority is the Scope & Authority Enforcer (SPEC_FULL.md §4.8):
// it decides whether a caller's authenticated scope permits an operation on
// a Secret/TrustedSecret/UserSecret record, and builds the widened
// ScopeFilter a read operation should query with.
//
// Grounded on the teacher's internal/permissions.PermissionChecker
// (Allowed/Reason/Constraints result shape, principal-vs-request checks)
// and internal/policy's allow/deny-list idiom, re-targeted from CLI
// provider/environment policy onto tenant scope and TrustedSecret
// encryption-parity checks.
package authority

import (
	"github.com/systmms/secretcore/internal/logging"
	"github.com/systmms/secretcore/internal/model"
)

const component = "authority"

// Role is the caller's position in the domain/workspace/project/user
// hierarchy, strongest first.
type Role string

const (
	RoleDomainAdmin     Role = "DOMAIN_ADMIN"
	RoleWorkspaceOwner  Role = "WORKSPACE_OWNER"
	RoleWorkspaceMember Role = "WORKSPACE_MEMBER"
	RoleUser            Role = "USER"
)

// Caller is the authenticated scope an RPC is executing under, populated by
// the gRPC auth interceptor (C10) from the request's token/session.
type Caller struct {
	DomainID    string
	WorkspaceID string
	ProjectIDs  []string
	UserID      string
	Role        Role
}

// Result is the outcome of an authorization check.
type Result struct {
	Allowed bool
	Reason  string
}

func allow(reason string) Result  { return Result{Allowed: true, Reason: reason} }
func deny(reason string) Result   { return Result{Allowed: false, Reason: reason} }

// Enforcer applies scope and authority rules. It is stateless; all the
// context it needs travels in the Caller and target record passed to each
// call.
type Enforcer struct {
	logger *logging.Logger
}

// New builds an Enforcer. logger may be nil, in which case checks are
// silent.
func New(logger *logging.Logger) *Enforcer {
	return &Enforcer{logger: logger}
}

func (e *Enforcer) warn(msg string, fields ...logging.Field) {
	if e.logger != nil {
		e.logger.Warn(msg, fields...)
	}
}

// AuthorizeWrite checks whether caller may create, update, or delete a
// record anchored at the given resource group and scope IDs. Unlike reads,
// writes never widen via wildcard: the caller's scope must contain the
// target scope exactly.
func (e *Enforcer) AuthorizeWrite(caller Caller, group model.ResourceGroup, domainID, workspaceID string, projectID string) Result {
	if caller.DomainID != domainID {
		e.warn("cross-domain write rejected", logging.F("caller_domain", caller.DomainID), logging.F("target_domain", domainID))
		return deny("caller domain does not match target domain")
	}

	switch group {
	case model.ResourceGroupDomain:
		if caller.Role != RoleDomainAdmin {
			return deny("domain-scoped records require DOMAIN_ADMIN")
		}
	case model.ResourceGroupWorkspace:
		if caller.Role == RoleUser {
			return deny("workspace-scoped records require at least WORKSPACE_MEMBER")
		}
		if caller.WorkspaceID != workspaceID {
			return deny("caller workspace does not match target workspace")
		}
	case model.ResourceGroupProject:
		if caller.Role == RoleUser {
			return deny("project-scoped records require at least WORKSPACE_MEMBER")
		}
		if caller.WorkspaceID != workspaceID {
			return deny("caller workspace does not match target workspace")
		}
		if !containsProject(caller.ProjectIDs, projectID) && caller.Role != RoleWorkspaceOwner && caller.Role != RoleDomainAdmin {
			return deny("caller is not a member of the target project")
		}
	case model.ResourceGroupUser:
		// USER-scoped records (UserSecret) are always self-owned; callers
		// authorize by userID match at the call site, not through this path.
	}

	return allow("write authorized")
}

// ReadFilter builds the ScopeFilter a list/get query should run with,
// widening project/workspace visibility per §4.8's wildcard rule: a caller
// can always see DOMAIN- and WORKSPACE-wide records layered underneath
// their own project, in addition to their project's own records.
func (e *Enforcer) ReadFilter(caller Caller) model.ScopeFilter {
	filter := model.ScopeFilter{
		DomainID:    caller.DomainID,
		WorkspaceID: caller.WorkspaceID,
		ProjectIDs:  caller.ProjectIDs,
		UserID:      caller.UserID,
	}
	if caller.Role == RoleDomainAdmin {
		filter.WorkspaceID = model.Wildcard
		filter.ProjectIDs = nil
	}
	return filter
}

// AuthorizeUserSecretAccess checks that caller owns the given UserSecret's
// userID. UserSecrets are never visible across users, even to a domain
// admin, matching the original service's treatment of user-scoped secrets
// as personal data rather than tenant-administrable resources.
func (e *Enforcer) AuthorizeUserSecretAccess(caller Caller, ownerUserID string) Result {
	if caller.UserID != ownerUserID {
		return deny("user secrets are only visible to their owner")
	}
	return allow("owner match")
}

// ValidateTrustedSecretLink enforces the encryption-parity invariant
// (§3, §8): a Secret that links to a TrustedSecret must match it on
// Encrypted and, when both are encrypted, on EncryptAlgorithm. A mismatch
// here would mean the Secret's payload was wrapped under a data key the
// TrustedSecret's KMS adapter cannot unwrap.
func (e *Enforcer) ValidateTrustedSecretLink(secret model.Secret, trusted model.TrustedSecret) error {
	if secret.Encrypted != trusted.Encrypted {
		return errEncryptionMismatch(secret.SecretID, trusted.TrustedSecretID)
	}
	if secret.Encrypted && secret.EncryptOptions.EncryptAlgorithm != trusted.EncryptOptions.EncryptAlgorithm {
		return errEncryptionMismatch(secret.SecretID, trusted.TrustedSecretID)
	}
	return nil
}

func containsProject(projectIDs []string, projectID string) bool {
	for _, p := range projectIDs {
		if p == projectID {
			return true
		}
	}
	return false
}
