package session

// Capability is the set of screens/affordances a client may present for a
// session state.
type Capability string

const (
	// CapabilityNone means render nothing: the session is still resolving.
	CapabilityNone Capability = "none"
	// CapabilityAuthForms offers sign-in and sign-up.
	CapabilityAuthForms Capability = "auth_forms"
	// CapabilityOnboarding is for an authenticated identity with no
	// provisioned role: it still needs sign-in/out affordances but cannot
	// be routed to a role area.
	CapabilityOnboarding Capability = "onboarding"
	CapabilityUserArea   Capability = "user_area"
	CapabilityAdminArea  Capability = "admin_area"
)

// Resolve maps a session state onto the capability a client may render.
// Pure and side-effect free; an errored session routes like an
// unauthenticated one but stays distinguishable through the state itself.
func Resolve(s State) Capability {
	switch s.Status {
	case StatusInitializing:
		return CapabilityNone
	case StatusUnauthenticated, StatusErrored:
		return CapabilityAuthForms
	case StatusAuthenticated:
		switch s.Role {
		case RoleAdmin:
			return CapabilityAdminArea
		case RoleUser:
			return CapabilityUserArea
		default:
			return CapabilityOnboarding
		}
	default:
		return CapabilityNone
	}
}
