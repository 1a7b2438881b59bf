package api

import (
	"context"
	"net/http"

	"github.com/expertpicks/clientcore/core/session"
)

// RegisterParams are the registration form inputs.
type RegisterParams struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates with email and password. The response body carries the
// identity record including the token; validating and committing it is the
// session manager's job.
func (c *Client) Login(ctx context.Context, creds session.Credentials) (session.Identity, error) {
	var identity session.Identity
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &identity); err != nil {
		return session.Identity{}, err
	}
	return identity, nil
}

// Register creates a new account. The returned identity can be handed to
// Manager.SetAuthentication to log the user in immediately after signup.
func (c *Client) Register(ctx context.Context, params RegisterParams) (session.Identity, error) {
	var identity session.Identity
	if err := c.do(ctx, http.MethodPost, "/auth/register", params, &identity); err != nil {
		return session.Identity{}, err
	}
	return identity, nil
}
