package api

import (
	"context"
	"net/http"
)

// Profile is the current user's extended profile as served by /users/me.
type Profile struct {
	ID                int64    `json:"id"`
	Email             string   `json:"email"`
	Username          string   `json:"username"`
	Roles             []string `json:"roles"`
	Bio               string   `json:"bio,omitempty"`
	ProfilePictureURL string   `json:"profilePictureUrl,omitempty"`
}

// ProfileUpdate is the request body for profile edits. Zero-valued fields
// are omitted so the backend leaves them unchanged.
type ProfileUpdate struct {
	Username          string `json:"username,omitempty"`
	Bio               string `json:"bio,omitempty"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &profile); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// UpdateMe updates the authenticated user's profile and returns the result.
// Callers propagate the relevant fields into the session via
// Manager.UpdateUser so the persisted identity stays current.
func (c *Client) UpdateMe(ctx context.Context, update ProfileUpdate) (Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodPut, "/users/me", update, &profile); err != nil {
		return Profile{}, err
	}
	return profile, nil
}
