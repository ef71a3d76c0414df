// Package account orchestrates sign-up, sign-in, and sign-out against the
// identity provider and seeds the profile document for new accounts.
package account

import (
	"context"
	"strings"
	"time"

	"github.com/carehub/carehub/internal/domain/session"
	"github.com/carehub/carehub/internal/platform/identity"
	"github.com/carehub/carehub/internal/platform/store"
	"github.com/carehub/carehub/internal/shared"
)

// Service wires credential operations on the identity provider to the
// profile collection.
type Service struct {
	provider identity.Provider
	docs     store.DocumentStore
}

func NewService(provider identity.Provider, docs store.DocumentStore) *Service {
	return &Service{provider: provider, docs: docs}
}

// SignUpInput is everything a new account needs: a credential plus the
// initial profile fields.
type SignUpInput struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Credentials is the result of a successful sign-up or sign-in.
type Credentials struct {
	Identity string `json:"userId"`
	Token    string `json:"token"`
}

// SignUp registers a credential with the provider and seeds the profile
// document with the standard starting role. The credential is created first;
// if the profile seed then fails, the account exists without a profile and
// the caller lands in onboarding on next sign-in, same as a missing profile.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*Credentials, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, shared.Validation("name")
	}
	if strings.TrimSpace(in.Phone) == "" {
		return nil, shared.Validation("phone")
	}

	id, token, err := s.provider.SignUp(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	err = s.docs.SetDocument(ctx, store.CollectionUsers, id, store.Fields{
		"name":      strings.TrimSpace(in.Name),
		"phone":     strings.TrimSpace(in.Phone),
		"email":     strings.TrimSpace(strings.ToLower(in.Email)),
		"role":      string(session.RoleUser),
		"updatedAt": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, shared.Remote("seed profile", err)
	}

	return &Credentials{Identity: id, Token: token}, nil
}

// SignIn verifies a credential with the provider.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Credentials, error) {
	id, token, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return &Credentials{Identity: id, Token: token}, nil
}

// SignOut ends the session's identity with the provider.
func (s *Service) SignOut(ctx context.Context, sess session.State) error {
	if !sess.IsAuthenticated() {
		return shared.ErrNotAuthenticated
	}
	return s.provider.SignOut(ctx, sess.Identity)
}
