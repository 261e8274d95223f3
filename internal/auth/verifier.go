package auth

import "context"

// Identity is the caller identity asserted by the external provider.
type Identity struct {
	Email string
	Name  string
}

// TokenVerifier validates an opaque bearer token against the identity
// provider and returns the verified identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}
