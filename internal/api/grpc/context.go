package grpc

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// GetUserIDFromContext extracts the user ID from the gRPC metadata.
// It expects a header named "user-id", set by the auth interceptor.
func GetUserIDFromContext(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Errorf(codes.Unauthenticated, "metadata is not provided")
	}

	userIDs := md.Get("user-id")
	if len(userIDs) == 0 || userIDs[0] == "" {
		return "", status.Errorf(codes.Unauthenticated, "user_id is not provided in metadata")
	}
	return userIDs[0], nil
}
