package request

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/carehub/carehub/internal/domain/session"
	"github.com/carehub/carehub/internal/platform/store"
	"github.com/carehub/carehub/internal/shared"
)

var (
	owner       = OwnerSnapshot{Name: "Asha", Phone: "555-0101"}
	appointment = AppointmentPayload{
		Reason:        "Annual checkup",
		PreferredDate: "2026-09-15",
		PreferredTime: "10:30",
	}
	help = HelpPayload{HelpType: HelpFood, Description: "Groceries for the week"}
)

func countDocs(t *testing.T, docs store.DocumentStore, collection string) int {
	t.Helper()
	_, total, err := docs.QueryDocuments(context.Background(), collection, store.Fields{}, 0, 0)
	if err != nil {
		t.Fatalf("count %s: %v", collection, err)
	}
	return total
}

func TestSubmitAppointment(t *testing.T) {
	docs := store.NewMemoryStore()
	svc := NewService(docs)
	sess := session.Authenticated("u1", session.RoleUser)

	id, err := svc.SubmitAppointment(context.Background(), sess, owner, appointment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated id")
	}

	doc, err := docs.GetDocument(context.Background(), store.CollectionAppointments, id)
	if err != nil {
		t.Fatalf("fetch stored request: %v", err)
	}
	r := FromDocument(doc)
	if r.OwnerID != "u1" || r.OwnerName != "Asha" || r.OwnerPhone != "555-0101" {
		t.Errorf("owner not stamped onto record: %+v", r)
	}
	if r.Kind != KindAppointment || r.Title != "Appointment Request" {
		t.Errorf("unexpected kind/title: %+v", r)
	}
	if r.Status != StatusPending {
		t.Errorf("new requests must be pending, got %q", r.Status)
	}
	if r.Reason != appointment.Reason || r.PreferredDate != appointment.PreferredDate || r.PreferredTime != appointment.PreferredTime {
		t.Errorf("payload not preserved: %+v", r)
	}
}

func TestSubmitHelpRequest(t *testing.T) {
	docs := store.NewMemoryStore()
	svc := NewService(docs)
	sess := session.Authenticated("u1", session.RoleUser)

	id, err := svc.SubmitHelpRequest(context.Background(), sess, owner, help)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc, err := docs.GetDocument(context.Background(), store.CollectionRequests, id)
	if err != nil {
		t.Fatalf("fetch stored request: %v", err)
	}
	r := FromDocument(doc)
	if r.Kind != KindHelp || r.HelpType != HelpFood || r.Description != help.Description {
		t.Errorf("payload not preserved: %+v", r)
	}
	if r.Title != "Food Assistance" {
		t.Errorf("expected derived title, got %q", r.Title)
	}
	if r.Status != StatusPending {
		t.Errorf("new requests must be pending, got %q", r.Status)
	}
}

func TestSubmit_NotAuthenticated(t *testing.T) {
	svc := NewService(store.NewMemoryStore())

	if _, err := svc.SubmitAppointment(context.Background(), session.Unauthenticated(), owner, appointment); !errors.Is(err, shared.ErrNotAuthenticated) {
		t.Errorf("appointment: expected ErrNotAuthenticated, got %v", err)
	}
	if _, err := svc.SubmitHelpRequest(context.Background(), session.Initializing(), owner, help); !errors.Is(err, shared.ErrNotAuthenticated) {
		t.Errorf("help: expected ErrNotAuthenticated, got %v", err)
	}
}

func TestSubmitAppointment_Validation(t *testing.T) {
	docs := store.NewMemoryStore()
	svc := NewService(docs)
	sess := session.Authenticated("u1", session.RoleUser)

	cases := []struct {
		field   string
		owner   OwnerSnapshot
		payload AppointmentPayload
	}{
		{"name", OwnerSnapshot{Phone: "555-0101"}, appointment},
		{"phone", OwnerSnapshot{Name: "Asha"}, appointment},
		{"reason", owner, AppointmentPayload{Reason: "   ", PreferredDate: "2026-09-15", PreferredTime: "10:30"}},
		{"preferredDate", owner, AppointmentPayload{Reason: "Checkup", PreferredTime: "10:30"}},
		{"preferredTime", owner, AppointmentPayload{Reason: "Checkup", PreferredDate: "2026-09-15"}},
	}

	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			_, err := svc.SubmitAppointment(context.Background(), sess, tc.owner, tc.payload)
			field, ok := shared.IsValidation(err)
			if !ok || field != tc.field {
				t.Errorf("expected validation error on %q, got %v", tc.field, err)
			}
		})
	}

	if n := countDocs(t, docs, store.CollectionAppointments); n != 0 {
		t.Errorf("rejected submissions must not write, found %d records", n)
	}
}

func TestSubmitHelpRequest_Validation(t *testing.T) {
	docs := store.NewMemoryStore()
	svc := NewService(docs)
	sess := session.Authenticated("u1", session.RoleUser)

	cases := []struct {
		field   string
		payload HelpPayload
	}{
		{"helpType", HelpPayload{HelpType: "Plumbing", Description: "Leaky tap"}},
		{"helpType", HelpPayload{Description: "No type at all"}},
		{"description", HelpPayload{HelpType: HelpHealth, Description: "  "}},
	}

	for _, tc := range cases {
		_, err := svc.SubmitHelpRequest(context.Background(), sess, owner, tc.payload)
		field, ok := shared.IsValidation(err)
		if !ok || field != tc.field {
			t.Errorf("payload %+v: expected validation error on %q, got %v", tc.payload, tc.field, err)
		}
	}

	if n := countDocs(t, docs, store.CollectionRequests); n != 0 {
		t.Errorf("rejected submissions must not write, found %d records", n)
	}
}

func TestSubmit_StoreFailure(t *testing.T) {
	svc := NewService(&failingStore{})
	sess := session.Authenticated("u1", session.RoleUser)

	_, err := svc.SubmitAppointment(context.Background(), sess, owner, appointment)
	if !shared.IsRemote(err) {
		t.Errorf("expected a remote error, got %v", err)
	}
}

func TestSubmit_ConcurrentDistinctIDs(t *testing.T) {
	docs := store.NewMemoryStore()
	svc := NewService(docs)
	sess := session.Authenticated("u1", session.RoleUser)

	const n = 20
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := svc.SubmitHelpRequest(context.Background(), sess, owner, help)
			if err != nil {
				t.Errorf("submit: %v", err)
				return
			}
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
	if got := countDocs(t, docs, store.CollectionRequests); got != n {
		t.Errorf("expected %d records, got %d", n, got)
	}
}

func TestList_OwnerOnly(t *testing.T) {
	docs := store.NewMemoryStore()
	svc := NewService(docs)

	for _, uid := range []string{"u1", "u1", "u2"} {
		sess := session.Authenticated(uid, session.RoleUser)
		if _, err := svc.SubmitHelpRequest(context.Background(), sess, owner, help); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	got, total, err := svc.List(context.Background(), session.Authenticated("u1", session.RoleUser), KindHelp, ListOptions{OwnerOnly: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(got) != 2 {
		t.Fatalf("expected 2 own requests, got %d (total %d)", len(got), total)
	}
	for _, r := range got {
		if r.OwnerID != "u1" {
			t.Errorf("foreign request leaked into own listing: %+v", r)
		}
	}
}

func TestList_AdminOnly(t *testing.T) {
	svc := NewService(store.NewMemoryStore())

	_, _, err := svc.List(context.Background(), session.Authenticated("u1", session.RoleUser), KindHelp, ListOptions{})
	if !errors.Is(err, shared.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied for non-admin full listing, got %v", err)
	}

	_, _, err = svc.List(context.Background(), session.Authenticated("a1", session.RoleAdmin), KindHelp, ListOptions{})
	if err != nil {
		t.Errorf("admin full listing must be allowed: %v", err)
	}
}

func TestList_StatusFilter(t *testing.T) {
	docs := store.NewMemoryStore()
	svc := NewService(docs)
	admin := session.Authenticated("a1", session.RoleAdmin)

	id, err := svc.SubmitHelpRequest(context.Background(), session.Authenticated("u1", session.RoleUser), owner, help)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.SubmitHelpRequest(context.Background(), session.Authenticated("u2", session.RoleUser), owner, help); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// Triage-side transition, outside this service's write surface.
	if err := docs.UpdateDocument(context.Background(), store.CollectionRequests, id, store.Fields{"status": string(StatusConfirmed)}); err != nil {
		t.Fatalf("advance status: %v", err)
	}

	got, total, err := svc.List(context.Background(), admin, KindHelp, ListOptions{Status: StatusConfirmed})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(got) != 1 || got[0].ID != id {
		t.Errorf("expected only the confirmed request, got %+v (total %d)", got, total)
	}
}

// failingStore fails every operation, standing in for an unreachable backend.
type failingStore struct{}

var errDown = fmt.Errorf("store unavailable")

func (f *failingStore) GetDocument(context.Context, string, string) (*store.Document, error) {
	return nil, errDown
}

func (f *failingStore) SetDocument(context.Context, string, string, store.Fields) error {
	return errDown
}

func (f *failingStore) UpdateDocument(context.Context, string, string, store.Fields) error {
	return errDown
}

func (f *failingStore) AddDocument(context.Context, string, store.Fields) (string, error) {
	return "", errDown
}

func (f *failingStore) QueryDocuments(context.Context, string, store.Fields, int, int) ([]*store.Document, int, error) {
	return nil, 0, errDown
}
