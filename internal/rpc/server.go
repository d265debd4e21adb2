package rpc

import (
	"google.golang.org/grpc"

	"github.com/systmms/secretcore/internal/logging"
	"github.com/systmms/secretcore/internal/observability"
	"github.com/systmms/secretcore/internal/service"
)

// Services bundles the three C9 service-layer instances the RPC Surface
// exposes.
type Services struct {
	Secret        *service.SecretService
	TrustedSecret *service.TrustedSecretService
	UserSecret    *service.UserSecretService
}

// NewServer builds the grpc.Server for the RPC Surface: the jsonCodec is
// forced server-wide (no .proto compilation step is in scope, per
// SPEC_FULL.md §4.10), and every unary call passes through AuthInterceptor
// before reaching a handler.
func NewServer(services Services, resolver TokenResolver, logger *logging.Logger, metrics *observability.Metrics) *grpc.Server {
	srv := grpc.NewServer(
		grpc.ForceServerCodec(jsonCodec{}),
		grpc.ChainUnaryInterceptor(MetricsInterceptor(metrics), AuthInterceptor(resolver, logger)),
	)

	RegisterSecretServiceServer(srv, NewSecretServer(services.Secret))
	RegisterTrustedSecretServiceServer(srv, NewTrustedSecretServer(services.TrustedSecret))
	RegisterUserSecretServiceServer(srv, NewUserSecretServer(services.UserSecret))

	return srv
}
