package service

import "github.com/systmms/secretcore/internal/model"

// stampScope normalizes a Secret's scope fields to model.Wildcard per §3:
// a WORKSPACE-scoped record has no project of its own, and a DOMAIN-scoped
// record has no workspace or project of its own, so both read as "*" rather
// than the caller's literal (and otherwise meaningless) IDs.
func stampScope(rec *model.Secret) {
	switch rec.ResourceGroup {
	case model.ResourceGroupDomain:
		rec.WorkspaceID = model.Wildcard
		rec.ProjectID = model.Wildcard
	case model.ResourceGroupWorkspace:
		rec.ProjectID = model.Wildcard
	}
}

// stampTrustedSecretScope applies the same DOMAIN-scope widening to a
// TrustedSecret, which carries a workspace but no project field.
func stampTrustedSecretScope(rec *model.TrustedSecret) {
	if rec.ResourceGroup == model.ResourceGroupDomain {
		rec.WorkspaceID = model.Wildcard
	}
}
