package rpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/secretcore/internal/authority"
	dserrors "github.com/systmms/secretcore/internal/errors"
)

func TestIdentityTokenResolverRejectsMalformedToken(t *testing.T) {
	r := NewIdentityTokenResolver(nil)

	_, err := r.Resolve(context.Background(), "not-enough-parts")
	require.Error(t, err)
	assert.Equal(t, dserrors.KindPermissionDenied, dserrors.KindOf(err))
}

func TestIdentityTokenResolverSkipsWorkspaceCheckWhenWorkspaceEmpty(t *testing.T) {
	r := NewIdentityTokenResolver(nil)

	caller, err := r.Resolve(context.Background(), "domain-1::user-1:USER")
	require.NoError(t, err)
	assert.Equal(t, authority.Caller{DomainID: "domain-1", UserID: "user-1", Role: authority.RoleUser}, caller)
}
