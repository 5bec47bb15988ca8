package security

import (
	"context"
	"strings"
)

// Identity is the authenticated caller as asserted by the identity provider.
type Identity struct {
	UserID      string
	DisplayName string
	Email       string
}

type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}

// BearerToken strips an optional "Bearer " prefix.
func BearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return strings.TrimSpace(header)
}
