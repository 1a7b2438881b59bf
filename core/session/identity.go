package session

import "slices"

// Identity is the authenticated user's record as returned by the platform's
// auth endpoints and persisted in durable client storage. The Token is the
// sole authorization credential attached to outbound requests.
type Identity struct {
	ID                int64    `json:"id"`
	Email             string   `json:"email"`
	Username          string   `json:"username"`
	Roles             []string `json:"roles"`
	Token             string   `json:"token"`
	ProfilePictureURL string   `json:"profilePictureUrl,omitempty"`
}

// Valid reports whether the identity carries a usable token.
// An identity without a token must never be treated as authenticated.
func (id Identity) Valid() bool {
	return id.Token != ""
}

// HasRole reports whether the identity holds the given role.
func (id Identity) HasRole(role string) bool {
	return slices.Contains(id.Roles, role)
}

// HasAnyRole reports whether the identity holds at least one of the given roles.
func (id Identity) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if id.HasRole(role) {
			return true
		}
	}
	return false
}

// IdentityPatch describes a partial identity update. Nil fields are left
// untouched. The token is deliberately not patchable: credential changes go
// through Login or SetAuthentication.
type IdentityPatch struct {
	Email             *string
	Username          *string
	Roles             []string
	ProfilePictureURL *string
}

// apply merges the patch into a copy of the identity.
func (p IdentityPatch) apply(id Identity) Identity {
	if p.Email != nil {
		id.Email = *p.Email
	}
	if p.Username != nil {
		id.Username = *p.Username
	}
	if p.Roles != nil {
		id.Roles = slices.Clone(p.Roles)
	}
	if p.ProfilePictureURL != nil {
		id.ProfilePictureURL = *p.ProfilePictureURL
	}
	return id
}

// Credentials are the login form inputs.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
