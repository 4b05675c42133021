// Package guard gates navigation between views based on the session state.
// Decisions are synchronous against the in-memory session snapshot: no
// network round-trip gates a navigation. A token restored at startup is
// trusted until a request proves otherwise, at which point the forced
// logout revokes access on the next guard check.
package guard

// Route identifies a view the user can navigate to.
type Route string

const (
	// RouteLogin is the only public view.
	RouteLogin Route = "login"
	// RouteHome is the passport search view, the default after login.
	RouteHome Route = "home"
	// RouteMyRecords lists the caller's own records.
	RouteMyRecords Route = "my-records"
	// RouteAddRecord is the record creation form.
	RouteAddRecord Route = "add-record"
	// RouteProfile shows the extended user profile.
	RouteProfile Route = "profile"
	// RouteNotFound is rendered for unknown targets.
	RouteNotFound Route = "not-found"
)

// Protected reports whether the route requires an authenticated session.
func (r Route) Protected() bool {
	switch r {
	case RouteLogin, RouteNotFound:
		return false
	}
	return true
}

// Authenticator exposes the session predicate the guard needs.
type Authenticator interface {
	IsAuthenticated() bool
}

// Guard resolves navigation targets against the session.
type Guard struct {
	auth Authenticator
}

// New returns a Guard over the given session.
func New(auth Authenticator) *Guard {
	return &Guard{auth: auth}
}

// Resolve returns the route that should actually be rendered for target:
// protected targets redirect to login when unauthenticated, and the login
// view redirects to home when already authenticated. The original
// navigation is discarded, not queued.
func (g *Guard) Resolve(target Route) Route {
	authed := g.auth.IsAuthenticated()

	if target.Protected() && !authed {
		return RouteLogin
	}
	if target == RouteLogin && authed {
		return RouteHome
	}
	return target
}
