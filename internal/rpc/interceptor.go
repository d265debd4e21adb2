package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/systmms/secretcore/internal/authority"
	dserrors "github.com/systmms/secretcore/internal/errors"
	"github.com/systmms/secretcore/internal/logging"
)

type callerContextKey struct{}

// CallerFromContext extracts the authority.Caller the auth interceptor
// resolved for the current RPC. Handlers call this instead of parsing
// metadata themselves.
func CallerFromContext(ctx context.Context) (authority.Caller, bool) {
	caller, ok := ctx.Value(callerContextKey{}).(authority.Caller)
	return caller, ok
}

// TokenResolver maps an inbound bearer token to the authority.Caller it
// authenticates, the one piece of auth logic this service does not own
// (it delegates to the identity service / token introspection, out of
// scope per §1).
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (authority.Caller, error)
}

// AuthInterceptor builds the unary server interceptor that extracts the
// caller's token from the "authorization" metadata key, resolves it to a
// scope via resolver, and injects that scope into the request context
// before the handler runs — the decorator-driven auth of the original
// source reimplemented as explicit interceptor code (§9).
func AuthInterceptor(resolver TokenResolver, logger *logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(toGRPCCode(dserrors.KindPermissionDenied), "missing request metadata")
		}
		tokens := md.Get("authorization")
		if len(tokens) == 0 {
			return nil, status.Error(toGRPCCode(dserrors.KindPermissionDenied), "missing authorization token")
		}

		caller, err := resolver.Resolve(ctx, tokens[0])
		if err != nil {
			if logger != nil {
				logger.Warn("token resolution failed", logging.F("method", info.FullMethod))
			}
			return nil, toStatusError(err)
		}

		ctx = context.WithValue(ctx, callerContextKey{}, caller)
		resp, err := handler(ctx, req)
		if err != nil {
			return nil, toStatusError(err)
		}
		return resp, nil
	}
}
