package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/carehub/carehub/internal/platform/store"
	"github.com/carehub/carehub/internal/shared"
)

// gateStore is a DocumentStore stub whose GetDocument blocks until the
// per-identity gate channel is closed, so tests can decide completion order.
type gateStore struct {
	mu    sync.Mutex
	docs  map[string]store.Fields
	errs  map[string]error
	gates map[string]chan struct{}
}

func newGateStore() *gateStore {
	return &gateStore{
		docs:  make(map[string]store.Fields),
		errs:  make(map[string]error),
		gates: make(map[string]chan struct{}),
	}
}

func (s *gateStore) gate(identity string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gates[identity]
	if !ok {
		g = make(chan struct{})
		close(g)
		s.gates[identity] = g
	}
	return g
}

func (s *gateStore) hold(identity string) chan struct{} {
	g := make(chan struct{})
	s.mu.Lock()
	s.gates[identity] = g
	s.mu.Unlock()
	return g
}

func (s *gateStore) GetDocument(_ context.Context, collection, id string) (*store.Document, error) {
	<-s.gate(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.errs[id]; ok {
		return nil, err
	}
	fields, ok := s.docs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &store.Document{ID: id, Fields: fields}, nil
}

func (s *gateStore) SetDocument(context.Context, string, string, store.Fields) error {
	return nil
}
func (s *gateStore) UpdateDocument(context.Context, string, string, store.Fields) error {
	return nil
}
func (s *gateStore) AddDocument(context.Context, string, store.Fields) (string, error) {
	return "", nil
}
func (s *gateStore) QueryDocuments(context.Context, string, store.Fields, int, int) ([]*store.Document, int, error) {
	return nil, 0, nil
}

// recorder collects delivered states.
type recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *recorder) record(s State) {
	r.mu.Lock()
	r.states = append(r.states, s)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]State, len(r.states))
	copy(out, r.states)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestResolver_InitialState(t *testing.T) {
	r := NewResolver(newGateStore())

	if got := r.Current(); got.Status != StatusInitializing {
		t.Errorf("expected initializing, got %s", got.Status)
	}

	rec := &recorder{}
	r.Subscribe(rec.record)
	states := rec.snapshot()
	if len(states) != 1 || states[0].Status != StatusInitializing {
		t.Errorf("expected immediate initializing delivery, got %v", states)
	}
}

func TestResolver_SignOutResolvesImmediately(t *testing.T) {
	r := NewResolver(newGateStore())
	r.OnIdentityEvent(context.Background(), "")

	if got := r.Current(); got.Status != StatusUnauthenticated {
		t.Errorf("expected unauthenticated, got %s", got.Status)
	}
}

func TestResolver_ResolvesRoleFromProfile(t *testing.T) {
	s := newGateStore()
	s.docs["u1"] = store.Fields{"role": "admin"}
	r := NewResolver(s)

	r.OnIdentityEvent(context.Background(), "u1")
	waitFor(t, func() bool { return r.Current().Status == StatusAuthenticated })

	got := r.Current()
	if got.Identity != "u1" || got.Role != RoleAdmin {
		t.Errorf("expected authenticated admin u1, got %+v", got)
	}
}

func TestResolver_MissingProfileIsRoleNone(t *testing.T) {
	r := NewResolver(newGateStore())

	r.OnIdentityEvent(context.Background(), "ghost")
	waitFor(t, func() bool { return r.Current().Status == StatusAuthenticated })

	got := r.Current()
	if got.Role != RoleNone {
		t.Errorf("missing profile must resolve to RoleNone, got %+v", got)
	}
	if got.Status == StatusUnauthenticated {
		t.Error("missing profile must not resolve to unauthenticated")
	}
}

func TestResolver_FetchFailureIsErrored(t *testing.T) {
	s := newGateStore()
	s.errs["u1"] = errors.New("connection refused")
	r := NewResolver(s)

	r.OnIdentityEvent(context.Background(), "u1")
	waitFor(t, func() bool { return r.Current().Status == StatusErrored })

	got := r.Current()
	if got.Identity != "u1" {
		t.Errorf("errored state should carry the identity, got %+v", got)
	}
}

func TestResolver_StaleLookupDiscarded(t *testing.T) {
	s := newGateStore()
	s.docs["slow"] = store.Fields{"role": "admin"}
	s.docs["fast"] = store.Fields{"role": "user"}
	slowGate := s.hold("slow")

	r := NewResolver(s)
	rec := &recorder{}
	r.Subscribe(rec.record)

	ctx := context.Background()
	r.OnIdentityEvent(ctx, "slow")
	r.OnIdentityEvent(ctx, "fast")
	waitFor(t, func() bool { return r.Current().Identity == "fast" })

	// Let the stale lookup finish last; its result must be dropped.
	close(slowGate)
	time.Sleep(20 * time.Millisecond)

	got := r.Current()
	if got.Identity != "fast" || got.Role != RoleUser {
		t.Errorf("stale slow lookup clobbered newer state: %+v", got)
	}
	for _, st := range rec.snapshot() {
		if st.Identity == "slow" {
			t.Error("a discarded generation must never be delivered")
		}
	}
}

func TestResolver_SignOutSupersedesInFlightLookup(t *testing.T) {
	s := newGateStore()
	s.docs["u1"] = store.Fields{"role": "user"}
	gate := s.hold("u1")

	r := NewResolver(s)
	ctx := context.Background()
	r.OnIdentityEvent(ctx, "u1")
	r.OnIdentityEvent(ctx, "")

	close(gate)
	time.Sleep(20 * time.Millisecond)

	if got := r.Current(); got.Status != StatusUnauthenticated {
		t.Errorf("late lookup overwrote sign-out: %+v", got)
	}
}

func TestResolver_DeliveryOrderUnderRapidEvents(t *testing.T) {
	s := newGateStore()
	for _, id := range []string{"a", "b", "c"} {
		s.docs[id] = store.Fields{"role": "user"}
	}
	gateA := s.hold("a")
	gateB := s.hold("b")

	r := NewResolver(s)
	rec := &recorder{}
	r.Subscribe(rec.record)

	ctx := context.Background()
	r.OnIdentityEvent(ctx, "a")
	r.OnIdentityEvent(ctx, "b")
	r.OnIdentityEvent(ctx, "c")
	waitFor(t, func() bool { return r.Current().Identity == "c" })

	// Older lookups complete out of order.
	close(gateB)
	close(gateA)
	time.Sleep(20 * time.Millisecond)

	states := rec.snapshot()
	last := states[len(states)-1]
	if last.Identity != "c" {
		t.Errorf("final delivered state should be for c, got %+v", last)
	}
	for _, st := range states {
		if st.Identity == "a" || st.Identity == "b" {
			t.Errorf("superseded generation delivered: %+v", st)
		}
	}
}

func TestResolver_Unsubscribe(t *testing.T) {
	s := newGateStore()
	s.docs["u1"] = store.Fields{"role": "user"}
	r := NewResolver(s)

	rec := &recorder{}
	cancel := r.Subscribe(rec.record)
	cancel()

	r.OnIdentityEvent(context.Background(), "u1")
	waitFor(t, func() bool { return r.Current().Status == StatusAuthenticated })

	if len(rec.snapshot()) != 1 {
		t.Error("cancelled subscriber should only have the initial delivery")
	}
}

func TestResolver_ResolveIdentity(t *testing.T) {
	s := newGateStore()
	s.docs["u1"] = store.Fields{"role": "user"}
	r := NewResolver(s)

	got := r.ResolveIdentity(context.Background(), "u1")
	if !got.IsAuthenticated() || got.Role != RoleUser {
		t.Errorf("expected authenticated user, got %+v", got)
	}

	if got := r.ResolveIdentity(context.Background(), ""); got.Status != StatusUnauthenticated {
		t.Errorf("expected unauthenticated for empty identity, got %+v", got)
	}
}
