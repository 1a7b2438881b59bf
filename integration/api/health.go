package api

import (
	"context"
	"net/http"
)

// Ping hits the backend liveness endpoint. Used by the keep-alive pinger to
// stop idle backends from spinning down; the response body is ignored beyond
// confirming a successful status.
func (c *Client) Ping(ctx context.Context) error {
	var payload struct {
		Status string `json:"status"`
	}
	return c.do(ctx, http.MethodGet, "/health/ping", nil, &payload)
}
