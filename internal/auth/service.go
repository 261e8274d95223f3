package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bits-lost-found/go-backend/internal/users"
)

// Service resolves bearer tokens to local user rows, creating the row on
// first login.
type Service struct {
	verifier      TokenVerifier
	users         *users.Repo
	allowedDomain string
}

func NewService(verifier TokenVerifier, userRepo *users.Repo, allowedDomain string) *Service {
	return &Service{
		verifier:      verifier,
		users:         userRepo,
		allowedDomain: allowedDomain,
	}
}

// ResolveIdentity verifies the token and returns the matching user, creating
// one for an unseen email. The same email always resolves to the same user:
// the insert path treats a unique violation as "already exists" and re-reads.
func (s *Service) ResolveIdentity(ctx context.Context, token string) (*users.User, error) {
	ident, err := s.verifier.Verify(ctx, token)
	if err != nil {
		// Verification detail stays in the logs; callers only see that
		// the token was rejected.
		log.Printf("[auth] token verification failed: %v", err)
		return nil, ErrAuthentication
	}

	if !strings.HasSuffix(ident.Email, s.allowedDomain) {
		return nil, ErrForbiddenDomain
	}

	u, err := s.users.GetByEmail(ctx, ident.Email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, users.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	handle, _, _ := strings.Cut(ident.Email, "@")
	u, err = s.users.Create(ctx, ident.Email, ident.Name, handle)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}
