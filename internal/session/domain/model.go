package domain

// UserRole is derived from the directory, never stored on the
// identity record itself.
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleWorker   UserRole = "worker"
)

func ValidRole(r UserRole) bool {
	return r == RoleCustomer || r == RoleWorker
}

// State is the session container's current state.
type State string

const (
	StateUnauthenticated          State = "unauthenticated"
	StateAuthenticatedIncomplete  State = "authenticated_incomplete"
	StateAuthenticatedComplete    State = "authenticated_complete"
)

// Logical navigation targets requested on state transitions. The
// client decides what to render for each; the contract is only which
// identifier is requested on which transition.
const (
	RouteDashboard = "/dashboard"
	RouteProfile   = "/profile"
	RouteLogin     = "/login"
)

// Session mirrors the identity provider's current session plus the
// role and profile-completeness derived from the directory.
type Session struct {
	UID             string   `json:"uid"`
	Email           string   `json:"email"`
	Name            string   `json:"name,omitempty"`
	Role            UserRole `json:"role"`
	ProfileComplete bool     `json:"profile_complete"`
	State           State    `json:"state"`
}

// AuthResult is returned by login/signup/logout: the resulting session
// (nil after logout) and the navigation target to request.
type AuthResult struct {
	Session    *Session `json:"session,omitempty"`
	RedirectTo string   `json:"redirect_to"`
}
