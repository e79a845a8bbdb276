package api

import "fmt"

// enumSet maps a closed set of small integer values to their wire names.
// Index zero is reserved for the invalid value.
type enumSet[E ~uint8] struct {
	kind  string
	names []string
}

func (s enumSet[E]) name(v E) string {
	if int(v) <= 0 || int(v) >= len(s.names) {
		return ""
	}
	return s.names[v]
}

func (s enumSet[E]) parse(value string) (E, error) {
	for i := 1; i < len(s.names); i++ {
		if s.names[i] == value {
			return E(i), nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", s.kind, value)
}

func (s enumSet[E]) all() []E {
	out := make([]E, 0, len(s.names)-1)
	for i := 1; i < len(s.names); i++ {
		out = append(out, E(i))
	}
	return out
}

func (s enumSet[E]) marshal(v E) ([]byte, error) {
	name := s.name(v)
	if name == "" {
		return nil, fmt.Errorf("invalid %s value %d", s.kind, v)
	}
	return []byte(name), nil
}

// Category is the kind of equipment an asset is.
type Category uint8

const (
	CategoryLaptop Category = iota + 1
	CategoryMonitor
	CategoryDockingStation
	CategoryPeripheral
	CategoryOther
)

var categories = enumSet[Category]{
	kind:  "category",
	names: []string{"", "Laptop", "Monitor", "Docking Station", "Peripheral", "Other"},
}

func (c Category) String() string                { return categories.name(c) }
func (c Category) MarshalText() ([]byte, error)  { return categories.marshal(c) }
func (c *Category) UnmarshalText(b []byte) error { return unmarshalInto(categories, c, b) }

// ParseCategory converts a wire name into a Category.
func ParseCategory(s string) (Category, error) { return categories.parse(s) }

// Categories lists every category in display order.
func Categories() []Category { return categories.all() }

// AssetStatus is the lifecycle state of an asset.
type AssetStatus uint8

const (
	AssetAvailable AssetStatus = iota + 1
	AssetAssigned
	AssetMaintenance
	AssetBroken
)

var assetStatuses = enumSet[AssetStatus]{
	kind:  "asset status",
	names: []string{"", "Available", "Assigned", "Maintenance", "Broken"},
}

func (s AssetStatus) String() string                { return assetStatuses.name(s) }
func (s AssetStatus) MarshalText() ([]byte, error)  { return assetStatuses.marshal(s) }
func (s *AssetStatus) UnmarshalText(b []byte) error { return unmarshalInto(assetStatuses, s, b) }

// ParseAssetStatus converts a wire name into an AssetStatus.
func ParseAssetStatus(s string) (AssetStatus, error) { return assetStatuses.parse(s) }

// AssetStatuses lists every asset status in display order.
func AssetStatuses() []AssetStatus { return assetStatuses.all() }

// RequestType is the kind of help an employee asks for.
type RequestType uint8

const (
	RequestNewEquipment RequestType = iota + 1
	RequestRepair
	RequestReplace
)

var requestTypes = enumSet[RequestType]{
	kind:  "request type",
	names: []string{"", "New Equipment", "Repair", "Replace"},
}

func (t RequestType) String() string                { return requestTypes.name(t) }
func (t RequestType) MarshalText() ([]byte, error)  { return requestTypes.marshal(t) }
func (t *RequestType) UnmarshalText(b []byte) error { return unmarshalInto(requestTypes, t, b) }

// ParseRequestType converts a wire name into a RequestType.
func ParseRequestType(s string) (RequestType, error) { return requestTypes.parse(s) }

// RequestTypes lists every request type in display order.
func RequestTypes() []RequestType { return requestTypes.all() }

// Priority ranks how urgent a request is.
type Priority uint8

const (
	PriorityLow Priority = iota + 1
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

var priorities = enumSet[Priority]{
	kind:  "priority",
	names: []string{"", "Low", "Normal", "High", "Critical"},
}

func (p Priority) String() string                { return priorities.name(p) }
func (p Priority) MarshalText() ([]byte, error)  { return priorities.marshal(p) }
func (p *Priority) UnmarshalText(b []byte) error { return unmarshalInto(priorities, p, b) }

// ParsePriority converts a wire name into a Priority.
func ParsePriority(s string) (Priority, error) { return priorities.parse(s) }

// Priorities lists every priority from lowest to highest.
func Priorities() []Priority { return priorities.all() }

// RequestStatus is the approval state of a request.
type RequestStatus uint8

const (
	RequestPending RequestStatus = iota + 1
	RequestApproved
	RequestDenied
	RequestCompleted
)

var requestStatuses = enumSet[RequestStatus]{
	kind:  "request status",
	names: []string{"", "Pending", "Approved", "Denied", "Completed"},
}

func (s RequestStatus) String() string                { return requestStatuses.name(s) }
func (s RequestStatus) MarshalText() ([]byte, error)  { return requestStatuses.marshal(s) }
func (s *RequestStatus) UnmarshalText(b []byte) error { return unmarshalInto(requestStatuses, s, b) }

// ParseRequestStatus converts a wire name into a RequestStatus.
func ParseRequestStatus(s string) (RequestStatus, error) { return requestStatuses.parse(s) }

// RequestStatuses lists every request status in display order.
func RequestStatuses() []RequestStatus { return requestStatuses.all() }

// Terminal reports whether no further transition is expected.
func (s RequestStatus) Terminal() bool {
	switch s {
	case RequestApproved, RequestDenied, RequestCompleted:
		return true
	case RequestPending:
		return false
	default:
		return false
	}
}

func unmarshalInto[E ~uint8](set enumSet[E], dst *E, b []byte) error {
	v, err := set.parse(string(b))
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
