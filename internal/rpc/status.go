package rpc

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	dserrors "github.com/systmms/secretcore/internal/errors"
)

// toGRPCCode maps an error Kind to a stable gRPC status code (§7's
// propagation policy).
func toGRPCCode(kind dserrors.Kind) codes.Code {
	switch kind {
	case dserrors.KindRequiredParameter, dserrors.KindWrongConfiguration:
		return codes.InvalidArgument
	case dserrors.KindPermissionDenied:
		return codes.PermissionDenied
	case dserrors.KindNotFound:
		return codes.NotFound
	case dserrors.KindNameConflict, dserrors.KindAlreadyExists:
		return codes.AlreadyExists
	case dserrors.KindEncryptionMismatch, dserrors.KindRelatedSecretExists, dserrors.KindBackendNotDefined:
		return codes.FailedPrecondition
	case dserrors.KindStoreUnavailable, dserrors.KindKMSUnavailable, dserrors.KindUpstreamUnavailable:
		return codes.Unavailable
	case dserrors.KindDecryptFailed, dserrors.KindUnsupportedEncrypt:
		return codes.InvalidArgument
	default:
		return codes.Internal
	}
}

// toStatusError converts any error returned from the service layer into a
// grpc/status error carrying the mapped code. Errors that never passed
// through internal/errors are reported as codes.Internal, matching §7's
// "unexpected errors surfaced as codes.Internal" rule.
func toStatusError(err error) error {
	if err == nil {
		return nil
	}
	kind := dserrors.KindOf(err)
	return status.Error(toGRPCCode(kind), err.Error())
}
