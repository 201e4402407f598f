package session

// Navigation targets used by guard redirects.
const (
	TargetLogin = "/login"
	TargetHome  = "/"
)

// Decision is the outcome of an authorization check. Exactly one of Allow,
// Pending or a non-empty RedirectTo holds.
type Decision struct {
	// Allow means the caller may render the protected content.
	Allow bool

	// Pending means session state is not yet known; the caller must show a
	// neutral loading state instead of deciding.
	Pending bool

	// RedirectTo is the navigation target when access is denied.
	RedirectTo string

	// From carries the originally requested location on a login redirect so
	// the user can be returned there after authenticating.
	From string
}

// Decide evaluates whether the current session may access a destination
// guarded by requiredRoles. It is pure: same inputs, same decision, no
// caching between navigations.
//
// An unauthenticated user is sent to login with the original destination
// preserved. An authenticated user lacking every required role is sent home,
// not to login: they are known, just unauthorized.
func Decide(snap Snapshot, from string, requiredRoles ...string) Decision {
	if snap.State == StateInitializing {
		return Decision{Pending: true}
	}

	if snap.State != StateAuthenticated || snap.Session == nil {
		return Decision{RedirectTo: TargetLogin, From: from}
	}

	if len(requiredRoles) > 0 && !snap.Session.User.HasAnyRole(requiredRoles...) {
		return Decision{RedirectTo: TargetHome}
	}

	return Decision{Allow: true}
}
