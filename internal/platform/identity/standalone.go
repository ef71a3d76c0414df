package identity

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/carehub/carehub/internal/platform/auth"
	"github.com/carehub/carehub/internal/platform/store"
	"github.com/carehub/carehub/internal/shared"
)

// Standalone is the built-in identity provider: credentials live as bcrypt
// hashes in the credentials collection and tokens are HS256-signed locally.
// The subject identity is the credential document's id, assigned once at
// sign-up and stable for the life of the account.
type Standalone struct {
	store  store.DocumentStore
	tokens *auth.TokenIssuer

	mu      sync.Mutex
	subs    map[int]func(string)
	nextSub int
}

// NewStandalone creates a Standalone provider over the given store and token
// issuer.
func NewStandalone(docs store.DocumentStore, tokens *auth.TokenIssuer) *Standalone {
	return &Standalone{store: docs, tokens: tokens, subs: make(map[int]func(string))}
}

func (p *Standalone) SubscribeAuthState(cb func(identity string)) func() {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = cb
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

func (p *Standalone) emit(identity string) {
	p.mu.Lock()
	subs := make([]func(string), 0, len(p.subs))
	for _, cb := range p.subs {
		subs = append(subs, cb)
	}
	p.mu.Unlock()

	for _, cb := range subs {
		cb(identity)
	}
}

func (p *Standalone) findCredential(ctx context.Context, email string) (*store.Document, error) {
	docs, _, err := p.store.QueryDocuments(ctx, store.CollectionCredentials, store.Fields{"email": email}, 1, 0)
	if err != nil {
		return nil, shared.Remote("query credentials", err)
	}
	if len(docs) == 0 {
		return nil, shared.ErrNotFound
	}
	return docs[0], nil
}

func (p *Standalone) SignIn(ctx context.Context, email, secret string) (string, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return "", "", shared.Validation("email")
	}
	if secret == "" {
		return "", "", shared.Validation("password")
	}

	cred, err := p.findCredential(ctx, email)
	if errors.Is(err, shared.ErrNotFound) {
		return "", "", shared.ErrInvalidCredentials
	}
	if err != nil {
		return "", "", err
	}

	hash, _ := cred.Fields["passwordHash"].(string)
	if err := auth.CheckPassword(hash, secret); err != nil {
		return "", "", err
	}

	token, err := p.tokens.Mint(cred.ID)
	if err != nil {
		return "", "", shared.Remote("mint token", err)
	}

	p.emit(cred.ID)
	return cred.ID, token, nil
}

func (p *Standalone) SignUp(ctx context.Context, email, secret string) (string, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return "", "", shared.Validation("email")
	}
	if len(secret) < 6 {
		return "", "", shared.Validation("password")
	}

	if _, err := p.findCredential(ctx, email); err == nil {
		return "", "", shared.ErrAlreadyExists
	} else if !errors.Is(err, shared.ErrNotFound) {
		return "", "", err
	}

	hash, err := auth.HashPassword(secret)
	if err != nil {
		return "", "", shared.Remote("hash password", err)
	}

	identity := uuid.NewString()
	err = p.store.SetDocument(ctx, store.CollectionCredentials, identity, store.Fields{
		"email":        email,
		"passwordHash": hash,
	})
	if err != nil {
		return "", "", shared.Remote("create credential", err)
	}

	token, err := p.tokens.Mint(identity)
	if err != nil {
		return "", "", shared.Remote("mint token", err)
	}

	p.emit(identity)
	return identity, token, nil
}

func (p *Standalone) SignOut(_ context.Context, _ string) error {
	p.emit("")
	return nil
}
