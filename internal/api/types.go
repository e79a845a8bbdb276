package api

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Asset mirrors an inventory entry returned by /api/assets.
type Asset struct {
	ID           int64       `json:"id"`
	Tag          string      `json:"tag"`
	Name         string      `json:"name"`
	Category     Category    `json:"category"`
	Status       AssetStatus `json:"status"`
	Site         string      `json:"site"`
	AssignedTo   *string     `json:"assignedTo"`
	PurchaseDate string      `json:"purchaseDate"`
}

// Key identifies the asset inside a local collection.
func (a Asset) Key() int64 { return a.ID }

// Holder returns the assigned person or an empty string.
func (a Asset) Holder() string {
	if a.AssignedTo == nil {
		return ""
	}
	return *a.AssignedTo
}

// ParsedPurchaseDate returns the purchase date, or the zero time.
func (a Asset) ParsedPurchaseDate() time.Time {
	return parseDate(a.PurchaseDate)
}

// AssetInput is the body of a create call. Server-assigned fields are absent.
type AssetInput struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Site     string   `json:"site"`
	Notes    string   `json:"notes,omitempty"`
}

// AssetUpdate carries the mutable fields of an asset. Zero fields are
// omitted. AssignedTo pointing at "" is the explicit unassign sentinel.
type AssetUpdate struct {
	Name       string      `json:"name,omitempty"`
	Category   Category    `json:"category,omitempty"`
	Site       string      `json:"site,omitempty"`
	Status     AssetStatus `json:"status,omitempty"`
	AssignedTo *string     `json:"assignedTo,omitempty"`
}

// UpdateFrom builds a full-field update from an edited asset, sending the
// unassign sentinel when nobody holds it.
func UpdateFrom(a Asset) AssetUpdate {
	holder := strings.TrimSpace(a.Holder())
	return AssetUpdate{
		Name:       a.Name,
		Category:   a.Category,
		Site:       a.Site,
		Status:     a.Status,
		AssignedTo: &holder,
	}.Normalize()
}

// Normalize applies the assignment policy: a holder implies Assigned and
// clearing the holder of an Assigned asset makes it Available.
func (u AssetUpdate) Normalize() AssetUpdate {
	if u.AssignedTo == nil {
		return u
	}
	if strings.TrimSpace(*u.AssignedTo) != "" {
		u.Status = AssetAssigned
		return u
	}
	if u.Status == AssetAssigned {
		u.Status = AssetAvailable
	}
	return u
}

// Request mirrors an equipment request returned by /api/requests.
type Request struct {
	ID          int64         `json:"id"`
	Type        RequestType   `json:"type"`
	Asset       *string       `json:"asset"`
	Description string        `json:"description"`
	Priority    Priority      `json:"priority"`
	Status      RequestStatus `json:"status"`
	User        string        `json:"user"`
	CreatedAt   string        `json:"createdAt"`
}

// Key identifies the request inside a local collection.
func (r Request) Key() int64 { return r.ID }

// AssetName returns the referenced asset display name, or an empty string.
func (r Request) AssetName() string {
	if r.Asset == nil {
		return ""
	}
	return *r.Asset
}

// ParsedCreatedAt returns the creation date, or the zero time.
func (r Request) ParsedCreatedAt() time.Time {
	return parseDate(r.CreatedAt)
}

// RequestInput is the body of a create-request call.
type RequestInput struct {
	Type        RequestType `json:"type"`
	Description string      `json:"description"`
	Priority    Priority    `json:"priority"`
	User        string      `json:"user"`
}

// Stats mirrors the aggregate counters served by /api/stats.
type Stats struct {
	TotalAssets       int `json:"totalAssets"`
	Assigned          int `json:"assigned"`
	Available         int `json:"available"`
	Maintenance       int `json:"maintenance"`
	Broken            int `json:"broken"`
	PendingRequests   int `json:"pendingRequests"`
	ApprovedRequests  int `json:"approvedRequests"`
	DeniedRequests    int `json:"deniedRequests"`
	CompletedRequests int `json:"completedRequests"`
}

// Utilization returns the assigned share of the inventory in percent.
func (s Stats) Utilization() int {
	if s.TotalAssets <= 0 {
		return 0
	}
	return (s.Assigned*100 + s.TotalAssets/2) / s.TotalAssets
}

// RequestCount returns the counter for a request status.
func (s Stats) RequestCount(status RequestStatus) int {
	switch status {
	case RequestPending:
		return s.PendingRequests
	case RequestApproved:
		return s.ApprovedRequests
	case RequestDenied:
		return s.DeniedRequests
	case RequestCompleted:
		return s.CompletedRequests
	default:
		return 0
	}
}

// AssetCount returns the counter for an asset status.
func (s Stats) AssetCount(status AssetStatus) int {
	switch status {
	case AssetAvailable:
		return s.Available
	case AssetAssigned:
		return s.Assigned
	case AssetMaintenance:
		return s.Maintenance
	case AssetBroken:
		return s.Broken
	default:
		return 0
	}
}

// Health mirrors /api/health.
type Health struct {
	Status    string `json:"status"`
	Database  bool   `json:"database"`
	Timestamp string `json:"timestamp"`
}

func parseDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
