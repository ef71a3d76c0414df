package session

import (
	"context"
	"errors"
	"sync"

	"github.com/carehub/carehub/internal/platform/store"
	"github.com/carehub/carehub/internal/shared"
)

// Resolver converts identity-provider events into the single authoritative
// session State for the process. Every event is stamped with a monotonically
// increasing generation before its role lookup starts; a lookup whose
// generation is no longer the latest when it completes is discarded, so a
// slow fetch for a stale sign-in can never clobber the state of a newer one.
//
// A superseded lookup is dropped, not aborted: the in-flight fetch runs to
// completion and its result is thrown away. No timeout is imposed here; the
// store's own deadline policy bounds worst-case latency.
type Resolver struct {
	profiles store.DocumentStore

	mu         sync.Mutex
	generation uint64
	state      State
	subs       map[int]func(State)
	nextSub    int

	// deliverMu serializes subscriber callbacks so transitions are never
	// observed out of order. Callbacks must not call back into the
	// Resolver.
	deliverMu sync.Mutex
}

// NewResolver creates a Resolver in the Initializing state, reading roles
// from the users collection of the given store.
func NewResolver(profiles store.DocumentStore) *Resolver {
	return &Resolver{
		profiles: profiles,
		state:    Initializing(),
		subs:     make(map[int]func(State)),
	}
}

// Current returns the latest accepted state.
func (r *Resolver) Current() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Subscribe registers cb, invokes it immediately with the current state, and
// invokes it again on every accepted transition, never out of generation
// order. The returned function cancels the subscription.
func (r *Resolver) Subscribe(cb func(State)) func() {
	r.deliverMu.Lock()
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = cb
	current := r.state
	r.mu.Unlock()
	cb(current)
	r.deliverMu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// OnIdentityEvent handles an authentication-state change from the identity
// provider. An empty identity means signed out and resolves immediately
// with no lookup; otherwise the profile fetch runs on its own goroutine and
// its result is applied only if no newer event has arrived meanwhile.
func (r *Resolver) OnIdentityEvent(ctx context.Context, identity string) {
	r.mu.Lock()
	r.generation++
	g := r.generation
	r.mu.Unlock()

	if identity == "" {
		r.apply(g, Unauthenticated())
		return
	}

	go func() {
		r.apply(g, r.lookup(ctx, identity))
	}()
}

func (r *Resolver) lookup(ctx context.Context, identity string) State {
	doc, err := r.profiles.GetDocument(ctx, store.CollectionUsers, identity)
	if errors.Is(err, shared.ErrNotFound) {
		// Authenticated but unprovisioned: no profile document exists and
		// none is materialized for it.
		return Authenticated(identity, RoleNone)
	}
	if err != nil {
		return Errored(identity)
	}

	role, _ := doc.Fields["role"].(string)
	return Authenticated(identity, ParseRole(role))
}

// apply installs next as the current state if g is still the latest
// generation, then fans it out to subscribers.
func (r *Resolver) apply(g uint64, next State) {
	r.deliverMu.Lock()
	defer r.deliverMu.Unlock()

	r.mu.Lock()
	if g != r.generation {
		r.mu.Unlock()
		return
	}
	r.state = next
	subs := make([]func(State), 0, len(r.subs))
	for _, cb := range r.subs {
		subs = append(subs, cb)
	}
	r.mu.Unlock()

	for _, cb := range subs {
		cb(next)
	}
}

// ResolveIdentity performs a synchronous one-shot role lookup for a single
// request's bearer identity, outside the event stream. Used by the HTTP
// layer, which authenticates per request rather than per process.
func (r *Resolver) ResolveIdentity(ctx context.Context, identity string) State {
	if identity == "" {
		return Unauthenticated()
	}
	return r.lookup(ctx, identity)
}
