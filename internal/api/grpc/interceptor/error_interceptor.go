package interceptor

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/logger"
)

// CodeFor maps a domain error kind to its gRPC status code.
func CodeFor(kind domain.ErrorKind) codes.Code {
	switch kind {
	case domain.KindValidation:
		return codes.InvalidArgument
	case domain.KindStateConflict:
		return codes.FailedPrecondition
	case domain.KindPermission:
		return codes.PermissionDenied
	case domain.KindNotFound:
		return codes.NotFound
	default:
		return codes.Unavailable
	}
}

// Errors converts domain errors returned by handlers into status errors
// whose message is the user-facing reason.
func Errors() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}
		if _, ok := status.FromError(err); ok {
			return nil, err
		}
		kind := domain.KindOf(err)
		if kind == domain.KindDependency {
			logger.Error("RPC failed", "method", info.FullMethod, "error", err)
		}
		return nil, status.Error(CodeFor(kind), domain.ReasonOf(err))
	}
}
