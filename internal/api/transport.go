package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// exchange is one in-flight call. The deadline stays armed until the body
// has been consumed, so a slow body also times out.
type exchange struct {
	resp   *http.Response
	ctx    context.Context
	cancel context.CancelFunc
}

func (e *exchange) close() {
	_, _ = io.Copy(io.Discard, e.resp.Body)
	_ = e.resp.Body.Close()
	e.cancel()
}

func (e *exchange) timedOut() bool {
	return errors.Is(e.ctx.Err(), context.DeadlineExceeded)
}

// send issues one HTTP call bounded by the client timeout. The response is
// returned unmodified; interpreting the status is the caller's job. When
// the deadline fires first the call is aborted and a *TimeoutError is
// returned. No retry is attempted.
func (c *Client) send(ctx context.Context, method string, rel *url.URL, body any) (*exchange, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	reqURL := c.baseURL.JoinPath(rel.Path)
	reqURL.RawQuery = rel.RawQuery

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create request: %w", err)
	}
	for name, values := range c.headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		deadline := errors.Is(ctx.Err(), context.DeadlineExceeded)
		cancel()
		if deadline {
			return nil, &TimeoutError{Method: method, Path: rel.Path}
		}
		return nil, &NetworkError{Err: err}
	}
	return &exchange{resp: resp, ctx: ctx, cancel: cancel}, nil
}

// do runs send, rejects non-success statuses and decodes the body into dest
// when dest is non-nil.
func (c *Client) do(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	ex, err := c.send(ctx, method, rel, body)
	if err != nil {
		return err
	}
	defer ex.close()

	if code := ex.resp.StatusCode; code < 200 || code > 299 {
		return &APIError{Path: rel.Path, StatusCode: code}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(ex.resp.Body).Decode(dest); err != nil {
		if ex.timedOut() {
			return &TimeoutError{Method: method, Path: rel.Path}
		}
		return &DecodeError{Err: err}
	}
	return nil
}
