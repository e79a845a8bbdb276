package api

import (
	"context"
	"net/http"
	"net/url"
)

const requestsPath = "/api/requests"

// ListRequests returns equipment requests in server order.
func (c *Client) ListRequests(ctx context.Context, filter Filter) ([]Request, error) {
	var payload []Request
	if err := c.do(ctx, http.MethodGet, listURL(requestsPath, filter), nil, &payload); err != nil {
		return nil, wrap(OpFetchRequests, err)
	}
	return payload, nil
}

// CreateRequest files a request. The service assigns id, status and date.
func (c *Client) CreateRequest(ctx context.Context, input RequestInput) (Request, error) {
	var payload Request
	if err := c.do(ctx, http.MethodPost, &url.URL{Path: requestsPath}, input, &payload); err != nil {
		return Request{}, wrap(OpCreateRequest, err)
	}
	return payload, nil
}

// UpdateRequestStatus sets a request's status. Transition legality is left
// to the service.
func (c *Client) UpdateRequestStatus(ctx context.Context, id int64, status RequestStatus) (Request, error) {
	body := struct {
		Status RequestStatus `json:"status"`
	}{Status: status}
	var payload Request
	if err := c.do(ctx, http.MethodPatch, itemURL(requestsPath, id), body, &payload); err != nil {
		return Request{}, wrap(OpUpdateRequest, err)
	}
	return payload, nil
}
