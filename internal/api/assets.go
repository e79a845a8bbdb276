package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// FilterAll is the sentinel status that disables server-side filtering.
const FilterAll = "all"

// Filter narrows a list call. Empty fields and the FilterAll status are
// left out of the query string.
type Filter struct {
	Status string
	User   string
}

func (f Filter) values() url.Values {
	values := url.Values{}
	if status := strings.TrimSpace(f.Status); status != "" && status != FilterAll {
		values.Set("status", status)
	}
	if user := strings.TrimSpace(f.User); user != "" {
		values.Set("user", user)
	}
	return values
}

func listURL(path string, f Filter) *url.URL {
	return &url.URL{Path: path, RawQuery: f.values().Encode()}
}

func itemURL(path string, id int64) *url.URL {
	return &url.URL{Path: path + "/" + strconv.FormatInt(id, 10)}
}

const assetsPath = "/api/assets"

// ListAssets returns the inventory in server order.
func (c *Client) ListAssets(ctx context.Context, filter Filter) ([]Asset, error) {
	var payload []Asset
	if err := c.do(ctx, http.MethodGet, listURL(assetsPath, filter), nil, &payload); err != nil {
		return nil, wrap(OpFetchAssets, err)
	}
	return payload, nil
}

// CreateAsset registers a new asset and returns it with server-assigned
// id, tag and purchase date.
func (c *Client) CreateAsset(ctx context.Context, input AssetInput) (Asset, error) {
	var payload Asset
	if err := c.do(ctx, http.MethodPost, &url.URL{Path: assetsPath}, input, &payload); err != nil {
		return Asset{}, wrap(OpCreateAsset, err)
	}
	return payload, nil
}

// UpdateAsset replaces the mutable fields of an asset.
func (c *Client) UpdateAsset(ctx context.Context, id int64, update AssetUpdate) (Asset, error) {
	var payload Asset
	if err := c.do(ctx, http.MethodPut, itemURL(assetsPath, id), update, &payload); err != nil {
		return Asset{}, wrap(OpUpdateAsset, err)
	}
	return payload, nil
}

// DeleteAsset removes an asset permanently.
func (c *Client) DeleteAsset(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, itemURL(assetsPath, id), nil, nil); err != nil {
		return wrap(OpDeleteAsset, err)
	}
	return nil
}
