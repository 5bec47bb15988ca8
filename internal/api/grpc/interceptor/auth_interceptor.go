package interceptor

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"swapcircle-backend/internal/config"
	"swapcircle-backend/internal/logger"
	"swapcircle-backend/internal/security"
)

type AuthInterceptor struct {
	verifier security.IdentityVerifier
}

func NewAuthInterceptor(v security.IdentityVerifier) *AuthInterceptor {
	return &AuthInterceptor{verifier: v}
}

// Unary returns a server interceptor function to authenticate unary RPCs
func (i *AuthInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		// Public endpoint - skip auth
		if config.GetSecurityLevel(info.FullMethod) == config.SecurityPublic {
			return handler(ctx, req)
		}

		token, err := i.extractToken(ctx)
		if err != nil {
			return nil, err
		}

		id, err := i.verifier.Verify(ctx, token)
		if err != nil {
			logger.Debug("Rejected bearer token", "method", info.FullMethod, "error", err)
			return nil, status.Error(codes.Unauthenticated, "your session has expired, please sign in again")
		}

		// Copy, then Set to overwrite any "user-id" header sent by the client.
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			md = metadata.New(nil)
		} else {
			md = md.Copy()
		}
		md.Set("user-id", id.UserID)
		newCtx := security.WithIdentity(metadata.NewIncomingContext(ctx, md), id)

		return handler(newCtx, req)
	}
}

func (i *AuthInterceptor) extractToken(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "metadata is not provided")
	}

	authHeader := md["authorization"]
	if len(authHeader) == 0 || security.BearerToken(authHeader[0]) == "" {
		return "", status.Error(codes.Unauthenticated, "authorization token is not provided")
	}
	return security.BearerToken(authHeader[0]), nil
}
