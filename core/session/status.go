package session

// Status is the three-state authentication phase. Bootstrapping means
// "unknown yet", which guards must not confuse with "known to be logged out".
type Status int

const (
	// StatusBootstrapping is the transient startup phase while durable
	// storage is being hydrated.
	StatusBootstrapping Status = iota
	// StatusUnauthenticated means no valid identity is active.
	StatusUnauthenticated
	// StatusAuthenticated means an identity with a usable token is active.
	StatusAuthenticated
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusBootstrapping:
		return "bootstrapping"
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent, read-only view of the session state.
// Version increases on every committed change, letting asynchronous
// operations detect that the session they were issued for is gone.
type Snapshot struct {
	Identity *Identity
	Status   Status
	Version  uint64
}

// IsAuthenticated derives the authentication flag. It is never true while
// Identity is absent or the token is empty.
func (s Snapshot) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated && s.Identity != nil && s.Identity.Valid()
}

// IsBootstrapping reports whether hydration from durable storage is still
// in progress.
func (s Snapshot) IsBootstrapping() bool {
	return s.Status == StatusBootstrapping
}

// Token returns the current authorization credential, or "" when logged out.
func (s Snapshot) Token() string {
	if !s.IsAuthenticated() {
		return ""
	}
	return s.Identity.Token
}
