// Package identity defines the narrow interface over the external identity
// provider and ships the standalone implementation used when no external
// provider is configured.
package identity

import "context"

// Provider authenticates credentials, issues stable subject identities, and
// emits auth-state change events. The rest of the system only ever sees this
// interface.
type Provider interface {
	// SubscribeAuthState registers cb to be invoked with the subject
	// identity on sign-in and with an empty string on sign-out. The
	// returned function cancels the subscription.
	SubscribeAuthState(cb func(identity string)) func()

	// SignIn verifies a credential and returns the subject identity with a
	// bearer token for it.
	SignIn(ctx context.Context, email, secret string) (identity, token string, err error)

	// SignUp registers a new credential and returns the new subject
	// identity with a bearer token for it.
	SignUp(ctx context.Context, email, secret string) (identity, token string, err error)

	// SignOut ends the identity's session.
	SignOut(ctx context.Context, identity string) error
}
