// Package guard gates navigation on session state. Guards are pure functions
// of a session snapshot evaluated at navigation time: the same snapshot always
// yields the same decision.
package guard

import "github.com/expertpicks/clientcore/core/session"

// Decision is the terminal render decision for one navigation attempt.
type Decision int

const (
	// DecisionPending means session hydration is still in progress. The
	// caller renders a neutral loading state and must not redirect:
	// bootstrapping is "unknown", never "logged out".
	DecisionPending Decision = iota
	// DecisionAuthorized grants the requested view.
	DecisionAuthorized
	// DecisionUnauthorized redirects to the login view.
	DecisionUnauthorized
	// DecisionForbidden redirects home with a visible denial notice.
	DecisionForbidden
)

// String implements fmt.Stringer.
func (d Decision) String() string {
	switch d {
	case DecisionPending:
		return "pending"
	case DecisionAuthorized:
		return "authorized"
	case DecisionUnauthorized:
		return "unauthorized"
	case DecisionForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Result carries the decision and, for redirecting decisions, where to go.
// From preserves the originally requested location so the post-login flow
// can return the user there.
type Result struct {
	Decision   Decision
	RedirectTo string
	From       string
}

// Config holds guard routing configuration.
type Config struct {
	LoginPath string `env:"GUARD_LOGIN_PATH" envDefault:"/login"`
	HomePath  string `env:"GUARD_HOME_PATH" envDefault:"/"`
	AdminRole string `env:"GUARD_ADMIN_ROLE" envDefault:"ROLE_ADMIN"`
}

// Guard evaluates protected and admin navigation against session snapshots.
type Guard struct {
	loginPath string
	homePath  string
	adminRole string
}

// New creates a guard. Zero-valued config fields fall back to the defaults
// "/login", "/", and "ROLE_ADMIN".
func New(cfg Config) Guard {
	g := Guard{
		loginPath: cfg.LoginPath,
		homePath:  cfg.HomePath,
		adminRole: cfg.AdminRole,
	}
	if g.loginPath == "" {
		g.loginPath = "/login"
	}
	if g.homePath == "" {
		g.homePath = "/"
	}
	if g.adminRole == "" {
		g.adminRole = "ROLE_ADMIN"
	}
	return g
}

// Protected gates views that require any authenticated session.
func (g Guard) Protected(snap session.Snapshot, requested string) Result {
	if snap.IsBootstrapping() {
		return Result{Decision: DecisionPending}
	}
	if !snap.IsAuthenticated() {
		return Result{
			Decision:   DecisionUnauthorized,
			RedirectTo: g.loginPath,
			From:       requested,
		}
	}
	return Result{Decision: DecisionAuthorized}
}

// Admin gates views that additionally require the admin role. The role check
// only runs after bootstrapping completes and the session is authenticated,
// so hydration can never produce a false denial.
func (g Guard) Admin(snap session.Snapshot, requested string) Result {
	res := g.Protected(snap, requested)
	if res.Decision != DecisionAuthorized {
		return res
	}
	if !snap.Identity.HasRole(g.adminRole) {
		return Result{
			Decision:   DecisionForbidden,
			RedirectTo: g.homePath,
			From:       requested,
		}
	}
	return res
}
