package api

import (
	"context"
	"net/http"
)

// PendingCount fetches the number of pending incoming collaboration requests
// for the authenticated user. This feeds the notification poller.
func (c *Client) PendingCount(ctx context.Context) (int, error) {
	var payload struct {
		PendingCount int `json:"pendingCount"`
	}
	if err := c.do(ctx, http.MethodGet, "/collaborations/requests/incoming/pending-count", nil, &payload); err != nil {
		return 0, err
	}
	return payload.PendingCount, nil
}
