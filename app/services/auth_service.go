package services

import (
	"context"
	"errors"

	"github.com/etuition/etuition-api/app/repositories"
	"github.com/etuition/etuition-api/pkg/apperr"
	"github.com/etuition/etuition-api/pkg/auth"
)

// TokenIssuer signs tokens for an identity.
type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

// AuthService issues tokens and resolves roles for the role gate.
type AuthService struct {
	users        repositories.UserRepository
	tokens       TokenIssuer
	requireKnown bool
}

// NewAuthService returns an AuthService. With requireKnown set, tokens are
// only issued for emails that have a user record.
func NewAuthService(users repositories.UserRepository, tokens TokenIssuer, requireKnown bool) *AuthService {
	return &AuthService{users: users, tokens: tokens, requireKnown: requireKnown}
}

// IssueToken signs a 30-day token for id.
func (s *AuthService) IssueToken(ctx context.Context, id auth.Identity) (string, error) {
	if s.requireKnown && id.Email != "" {
		if _, err := s.users.FindByEmail(ctx, id.Email); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return "", apperr.NotFound("No user registered with this email")
			}
			return "", classify(err)
		}
	}

	token, err := s.tokens.Issue(id)
	if errors.Is(err, auth.ErrMissingEmail) {
		return "", apperr.Invalid("Validation failed", map[string]string{"email": "cannot be blank"})
	}
	if err != nil {
		return "", apperr.Internal("Server error", err)
	}
	return token, nil
}

// RoleOf returns the stored role for email, or "" when no user exists.
func (s *AuthService) RoleOf(ctx context.Context, email string) (string, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return u.UserRole, nil
}
