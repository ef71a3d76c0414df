// Package session holds the resolved authentication state for a caller: the
// session state machine, the generation-guarded resolver that derives it from
// identity events, and the pure routing gate that maps it to a capability.
package session

// Role is the coarse-grained authorization tag attached to a profile.
type Role string

const (
	// RoleUnresolved means no lookup has completed for the identity yet.
	RoleUnresolved Role = ""
	// RoleNone means the identity is authenticated but has no profile
	// record, so no role has been provisioned.
	RoleNone  Role = "none"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a stored role string onto a Role, treating anything
// unrecognized as RoleNone so a corrupt document can never grant access.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleUser:
		return RoleUser
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleNone
	}
}

// Status enumerates the session state machine.
type Status string

const (
	// StatusInitializing is the state before the first identity event.
	StatusInitializing Status = "initializing"
	// StatusUnauthenticated means no identity is signed in.
	StatusUnauthenticated Status = "unauthenticated"
	// StatusAuthenticated means an identity is signed in and its role
	// lookup completed (possibly finding no profile, yielding RoleNone).
	StatusAuthenticated Status = "authenticated"
	// StatusErrored means the role lookup itself failed. Distinct from
	// RoleNone so callers can tell "no role" from "could not determine
	// role".
	StatusErrored Status = "errored"
)

// State is a resolved session. Derived, never persisted; each identity event
// produces a whole new State which supersedes the previous one.
type State struct {
	Status   Status `json:"status"`
	Identity string `json:"identity,omitempty"`
	Role     Role   `json:"role,omitempty"`
}

// Initializing is the state before the first identity event arrives.
func Initializing() State {
	return State{Status: StatusInitializing}
}

// Unauthenticated is the signed-out state.
func Unauthenticated() State {
	return State{Status: StatusUnauthenticated}
}

// Authenticated builds the signed-in state for an identity with the given
// role.
func Authenticated(identity string, role Role) State {
	return State{Status: StatusAuthenticated, Identity: identity, Role: role}
}

// Errored marks a failed role lookup for an identity.
func Errored(identity string) State {
	return State{Status: StatusErrored, Identity: identity}
}

// IsAuthenticated reports whether the state carries a signed-in identity
// with a completed role lookup.
func (s State) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated
}
