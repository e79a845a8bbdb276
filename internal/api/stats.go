package api

import (
	"context"
	"net/http"
	"net/url"
)

// FetchStats returns the aggregate counters computed by the service.
func (c *Client) FetchStats(ctx context.Context) (Stats, error) {
	var payload Stats
	if err := c.do(ctx, http.MethodGet, &url.URL{Path: "/api/stats"}, nil, &payload); err != nil {
		return Stats{}, wrap(OpFetchStats, err)
	}
	return payload, nil
}

// Health checks the service liveness endpoint.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var payload Health
	if err := c.do(ctx, http.MethodGet, &url.URL{Path: "/api/health"}, nil, &payload); err != nil {
		return Health{}, wrap(OpHealth, err)
	}
	return payload, nil
}
