package request

import (
	"context"
	"strings"

	"github.com/carehub/carehub/internal/domain/session"
	"github.com/carehub/carehub/internal/platform/store"
	"github.com/carehub/carehub/internal/shared"
)

// Service validates and persists service requests. Writes are create-only
// and not idempotent: a caller that retries after an ambiguous failure (say
// a timeout whose server-side outcome is unknown) may produce a duplicate
// record. That is an accepted limitation, not masked here; no retry happens
// internally.
type Service struct {
	docs store.DocumentStore
}

// NewService creates a request Service over the given store.
func NewService(docs store.DocumentStore) *Service {
	return &Service{docs: docs}
}

// SubmitAppointment validates and persists an appointment request for the
// session's identity, returning the store-generated id.
func (s *Service) SubmitAppointment(ctx context.Context, sess session.State, owner OwnerSnapshot, payload AppointmentPayload) (string, error) {
	if !sess.IsAuthenticated() {
		return "", shared.ErrNotAuthenticated
	}
	if err := validateOwner(owner); err != nil {
		return "", err
	}
	if strings.TrimSpace(payload.Reason) == "" {
		return "", shared.Validation("reason")
	}
	if strings.TrimSpace(payload.PreferredDate) == "" {
		return "", shared.Validation("preferredDate")
	}
	if strings.TrimSpace(payload.PreferredTime) == "" {
		return "", shared.Validation("preferredTime")
	}

	fields := store.Fields{
		"userId":        sess.Identity,
		"userName":      owner.Name,
		"userPhone":     owner.Phone,
		"type":          string(KindAppointment),
		"title":         "Appointment Request",
		"reason":        payload.Reason,
		"preferredDate": payload.PreferredDate,
		"preferredTime": payload.PreferredTime,
		"status":        string(StatusPending),
	}

	id, err := s.docs.AddDocument(ctx, collectionFor(KindAppointment), fields)
	if err != nil {
		return "", shared.Remote("addDocument", err)
	}
	return id, nil
}

// SubmitHelpRequest validates and persists a help request for the session's
// identity, returning the store-generated id.
func (s *Service) SubmitHelpRequest(ctx context.Context, sess session.State, owner OwnerSnapshot, payload HelpPayload) (string, error) {
	if !sess.IsAuthenticated() {
		return "", shared.ErrNotAuthenticated
	}
	if err := validateOwner(owner); err != nil {
		return "", err
	}
	if !validHelpTypes[payload.HelpType] {
		return "", shared.Validation("helpType")
	}
	if strings.TrimSpace(payload.Description) == "" {
		return "", shared.Validation("description")
	}

	fields := store.Fields{
		"userId":      sess.Identity,
		"userName":    owner.Name,
		"userPhone":   owner.Phone,
		"type":        string(KindHelp),
		"title":       string(payload.HelpType) + " Assistance",
		"helpType":    string(payload.HelpType),
		"description": payload.Description,
		"status":      string(StatusPending),
	}

	id, err := s.docs.AddDocument(ctx, collectionFor(KindHelp), fields)
	if err != nil {
		return "", shared.Remote("addDocument", err)
	}
	return id, nil
}

func validateOwner(owner OwnerSnapshot) error {
	if strings.TrimSpace(owner.Name) == "" {
		return shared.Validation("name")
	}
	if strings.TrimSpace(owner.Phone) == "" {
		return shared.Validation("phone")
	}
	return nil
}

// ListOptions scopes a request listing.
type ListOptions struct {
	// OwnerOnly restricts the listing to the session's own requests. When
	// false the caller must be an admin.
	OwnerOnly bool
	// Status filters by triage status when non-empty.
	Status Status
	Limit  int
	Offset int
}

// List returns requests of one kind, newest first. Non-admin sessions may
// only list their own.
func (s *Service) List(ctx context.Context, sess session.State, kind Kind, opts ListOptions) ([]*ServiceRequest, int, error) {
	if !sess.IsAuthenticated() {
		return nil, 0, shared.ErrNotAuthenticated
	}
	if !opts.OwnerOnly && sess.Role != session.RoleAdmin {
		return nil, 0, shared.ErrPermissionDenied
	}

	filter := store.Fields{}
	if opts.OwnerOnly {
		filter["userId"] = sess.Identity
	}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}

	docs, total, err := s.docs.QueryDocuments(ctx, collectionFor(kind), filter, opts.Limit, opts.Offset)
	if err != nil {
		return nil, 0, shared.Remote("queryDocuments", err)
	}

	out := make([]*ServiceRequest, 0, len(docs))
	for _, doc := range docs {
		out = append(out, FromDocument(doc))
	}
	return out, total, nil
}
