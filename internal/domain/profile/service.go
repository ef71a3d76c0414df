package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/carehub/carehub/internal/domain/session"
	"github.com/carehub/carehub/internal/platform/store"
	"github.com/carehub/carehub/internal/shared"
)

// Service reads and atomically updates the caller's own profile. Every read
// is a fresh fetch; nothing is cached across calls.
type Service struct {
	docs store.DocumentStore
}

// NewService creates a profile Service over the given store.
func NewService(docs store.DocumentStore) *Service {
	return &Service{docs: docs}
}

// Fetch returns the profile for the session's identity. A missing document
// is not an error: the caller gets a profile with empty optional fields and
// no fabricated role.
func (s *Service) Fetch(ctx context.Context, sess session.State) (*Profile, error) {
	if !sess.IsAuthenticated() {
		return nil, shared.ErrNotAuthenticated
	}

	doc, err := s.docs.GetDocument(ctx, store.CollectionUsers, sess.Identity)
	if errors.Is(err, shared.ErrNotFound) {
		return &Profile{ID: sess.Identity, Role: session.RoleNone}, nil
	}
	if err != nil {
		return nil, shared.Remote("getDocument", err)
	}
	return FromDocument(doc), nil
}

// Update merge-writes exactly the patched fields of the target profile, plus
// an update timestamp. The write is rejected before any I/O when a provided
// name/phone/email is blank, and when the target is not the session's own
// document. Role and id never pass through this path.
func (s *Service) Update(ctx context.Context, sess session.State, targetID string, patch Patch) error {
	if !sess.IsAuthenticated() {
		return shared.ErrNotAuthenticated
	}
	if targetID != sess.Identity {
		return shared.ErrPermissionDenied
	}

	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return shared.Validation("name")
	}
	if patch.Phone != nil && strings.TrimSpace(*patch.Phone) == "" {
		return shared.Validation("phone")
	}
	if patch.Email != nil && strings.TrimSpace(*patch.Email) == "" {
		return shared.Validation("email")
	}

	err := s.docs.UpdateDocument(ctx, store.CollectionUsers, targetID, patch.fields(time.Now()))
	if errors.Is(err, shared.ErrNotFound) {
		return shared.ErrNotFound
	}
	if err != nil {
		return shared.Remote("updateDocument", err)
	}
	return nil
}
