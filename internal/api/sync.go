package api

import (
	"context"
	"net/http"
	"time"
)

// ServerTime fetches the server's current time for clock offset
// computation.
func (c *Client) ServerTime(ctx context.Context) (time.Time, error) {
	var now time.Time
	if err := c.do(ctx, http.MethodGet, "/api/sync", nil, &now, http.StatusOK); err != nil {
		return time.Time{}, err
	}
	return now, nil
}
