package mockapi

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/five82/equip/internal/api"
)

var errNotFound = errors.New("not found")

type seedAsset struct {
	tag, name string
	category  api.Category
	status    api.AssetStatus
	site      string
	holder    string
	purchased string
}

type seedRequest struct {
	kind        api.RequestType
	asset       string
	description string
	priority    api.Priority
	status      api.RequestStatus
	user        string
	created     string
}

var seedAssets = []seedAsset{
	{"EQ-LAP-001", "Dell XPS 15", api.CategoryLaptop, api.AssetAssigned, "HQ", "Sam Rivera", "2024-03-15"},
	{"EQ-LAP-002", `MacBook Pro 16"`, api.CategoryLaptop, api.AssetAvailable, "HQ", "", "2024-01-20"},
	{"EQ-MON-042", `Dell UltraSharp 27"`, api.CategoryMonitor, api.AssetAssigned, "HQ", "Sam Rivera", "2024-02-10"},
	{"EQ-MON-043", "LG 4K Monitor", api.CategoryMonitor, api.AssetMaintenance, "New York", "", "2023-11-05"},
	{"EQ-DOC-018", "Dell WD19 Dock", api.CategoryDockingStation, api.AssetAssigned, "HQ", "Sam Rivera", "2024-03-15"},
	{"EQ-LAP-003", "ThinkPad X1 Carbon", api.CategoryLaptop, api.AssetBroken, "Remote", "Jordan Lee", "2023-08-22"},
	{"EQ-PER-089", "Logitech MX Master 3", api.CategoryPeripheral, api.AssetAssigned, "HQ", "Sam Rivera", "2024-03-15"},
	{"EQ-MON-044", `Samsung 32" Curved`, api.CategoryMonitor, api.AssetAvailable, "New York", "", "2024-04-01"},
	{"EQ-LAP-004", "HP EliteBook 840", api.CategoryLaptop, api.AssetAssigned, "New York", "Alex Chen", "2024-02-28"},
	{"EQ-LAP-005", "Dell Latitude 5520", api.CategoryLaptop, api.AssetAvailable, "HQ", "", "2024-05-10"},
	{"EQ-DOC-019", "Lenovo USB-C Dock", api.CategoryDockingStation, api.AssetAvailable, "HQ", "", "2024-06-01"},
	{"EQ-PER-090", "Logitech MX Keys", api.CategoryPeripheral, api.AssetAssigned, "HQ", "Alex Chen", "2024-02-28"},
}

var seedRequests = []seedRequest{
	{api.RequestNewEquipment, "", "Need a second monitor for productivity", api.PriorityNormal, api.RequestPending, "Sam Rivera", "2025-01-08"},
	{api.RequestRepair, "ThinkPad X1 Carbon", "Screen flickering issue", api.PriorityHigh, api.RequestApproved, "Jordan Lee", "2025-01-07"},
	{api.RequestReplace, "Logitech Keyboard", "Keys are worn out and sticky", api.PriorityLow, api.RequestCompleted, "Alex Chen", "2025-01-05"},
	{api.RequestNewEquipment, "", "Requesting docking station for home office", api.PriorityNormal, api.RequestDenied, "Taylor Kim", "2025-01-04"},
	{api.RequestRepair, "Dell Monitor", "Dead pixels appearing", api.PriorityNormal, api.RequestPending, "Sam Rivera", "2025-01-02"},
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// dataset is the data of one session.
type dataset struct {
	assets      []api.Asset
	requests    []api.Request
	nextAsset   int64
	nextRequest int64
}

func seed() *dataset {
	d := &dataset{}
	for _, s := range seedAssets {
		d.nextAsset++
		d.assets = append(d.assets, api.Asset{
			ID:           d.nextAsset,
			Tag:          s.tag,
			Name:         s.name,
			Category:     s.category,
			Status:       s.status,
			Site:         s.site,
			AssignedTo:   optional(s.holder),
			PurchaseDate: s.purchased,
		})
	}
	for _, s := range seedRequests {
		d.nextRequest++
		d.requests = append(d.requests, api.Request{
			ID:          d.nextRequest,
			Type:        s.kind,
			Asset:       optional(s.asset),
			Description: s.description,
			Priority:    s.priority,
			Status:      s.status,
			User:        s.user,
			CreatedAt:   s.created,
		})
	}
	return d
}

// Store keeps one lazily seeded dataset per session id.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*dataset
	now      func() time.Time
}

// NewStore returns an empty Store. now defaults to time.Now.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{sessions: make(map[string]*dataset), now: now}
}

// Sessions returns the number of seeded sessions.
func (s *Store) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) with(session string, fn func(d *dataset) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.sessions[session]
	if !ok {
		d = seed()
		s.sessions[session] = d
	}
	return fn(d)
}

func (s *Store) today() string {
	return s.now().Format("2006-01-02")
}

// ListAssets returns the session's assets matching filter, in insertion order.
func (s *Store) ListAssets(session string, filter api.Filter) []api.Asset {
	var out []api.Asset
	_ = s.with(session, func(d *dataset) error {
		out = make([]api.Asset, 0, len(d.assets))
		for _, a := range d.assets {
			if matches(filter.Status, a.Status.String()) && (filter.User == "" || a.Holder() == filter.User) {
				out = append(out, a)
			}
		}
		return nil
	})
	return out
}

// CreateAsset stores a new Available asset with a generated tag.
func (s *Store) CreateAsset(session string, in api.AssetInput) (api.Asset, error) {
	if strings.TrimSpace(in.Name) == "" {
		return api.Asset{}, fmt.Errorf("name is required")
	}
	if in.Category.String() == "" {
		return api.Asset{}, fmt.Errorf("category is required")
	}
	var created api.Asset
	err := s.with(session, func(d *dataset) error {
		d.nextAsset++
		created = api.Asset{
			ID:           d.nextAsset,
			Tag:          d.nextTag(in.Category),
			Name:         strings.TrimSpace(in.Name),
			Category:     in.Category,
			Status:       api.AssetAvailable,
			Site:         strings.TrimSpace(in.Site),
			PurchaseDate: s.today(),
		}
		d.assets = append(d.assets, created)
		return nil
	})
	return created, err
}

func (d *dataset) nextTag(c api.Category) string {
	count := 1
	for _, a := range d.assets {
		if a.Category == c {
			count++
		}
	}
	return fmt.Sprintf("EQ-%s-%03d", tagPrefix(c), count)
}

func tagPrefix(c api.Category) string {
	switch c {
	case api.CategoryLaptop:
		return "LAP"
	case api.CategoryMonitor:
		return "MON"
	case api.CategoryDockingStation:
		return "DOC"
	case api.CategoryPeripheral:
		return "PER"
	case api.CategoryOther:
		return "OTH"
	default:
		return "OTH"
	}
}

// UpdateAsset applies the non-zero fields of u and then the assignment
// policy, so the returned asset is always consistent.
func (s *Store) UpdateAsset(session string, id int64, u api.AssetUpdate) (api.Asset, error) {
	var updated api.Asset
	err := s.with(session, func(d *dataset) error {
		for i := range d.assets {
			a := &d.assets[i]
			if a.ID != id {
				continue
			}
			if name := strings.TrimSpace(u.Name); name != "" {
				a.Name = name
			}
			if u.Category != 0 {
				a.Category = u.Category
			}
			if site := strings.TrimSpace(u.Site); site != "" {
				a.Site = site
			}
			if u.Status != 0 {
				a.Status = u.Status
			}
			if u.AssignedTo != nil {
				a.AssignedTo = optional(strings.TrimSpace(*u.AssignedTo))
			}
			switch {
			case a.Holder() != "":
				a.Status = api.AssetAssigned
			case a.Status == api.AssetAssigned:
				a.Status = api.AssetAvailable
			}
			updated = *a
			return nil
		}
		return errNotFound
	})
	return updated, err
}

// DeleteAsset removes the asset with id.
func (s *Store) DeleteAsset(session string, id int64) error {
	return s.with(session, func(d *dataset) error {
		for i, a := range d.assets {
			if a.ID == id {
				d.assets = append(d.assets[:i], d.assets[i+1:]...)
				return nil
			}
		}
		return errNotFound
	})
}

// ListRequests returns the session's requests matching filter.
func (s *Store) ListRequests(session string, filter api.Filter) []api.Request {
	var out []api.Request
	_ = s.with(session, func(d *dataset) error {
		out = make([]api.Request, 0, len(d.requests))
		for _, r := range d.requests {
			if matches(filter.Status, r.Status.String()) && (filter.User == "" || r.User == filter.User) {
				out = append(out, r)
			}
		}
		return nil
	})
	return out
}

// CreateRequest stores a new Pending request dated today.
func (s *Store) CreateRequest(session string, in api.RequestInput) (api.Request, error) {
	if strings.TrimSpace(in.Description) == "" {
		return api.Request{}, fmt.Errorf("description is required")
	}
	if in.Type.String() == "" || in.Priority.String() == "" {
		return api.Request{}, fmt.Errorf("type and priority are required")
	}
	var created api.Request
	err := s.with(session, func(d *dataset) error {
		d.nextRequest++
		created = api.Request{
			ID:          d.nextRequest,
			Type:        in.Type,
			Description: strings.TrimSpace(in.Description),
			Priority:    in.Priority,
			Status:      api.RequestPending,
			User:        strings.TrimSpace(in.User),
			CreatedAt:   s.today(),
		}
		d.requests = append(d.requests, created)
		return nil
	})
	return created, err
}

// SetRequestStatus changes a request's status. Any transition is accepted.
func (s *Store) SetRequestStatus(session string, id int64, status api.RequestStatus) (api.Request, error) {
	var updated api.Request
	err := s.with(session, func(d *dataset) error {
		for i := range d.requests {
			if d.requests[i].ID == id {
				d.requests[i].Status = status
				updated = d.requests[i]
				return nil
			}
		}
		return errNotFound
	})
	return updated, err
}

// Stats counts the session's assets and requests by status.
func (s *Store) Stats(session string) api.Stats {
	var st api.Stats
	_ = s.with(session, func(d *dataset) error {
		st.TotalAssets = len(d.assets)
		for _, a := range d.assets {
			switch a.Status {
			case api.AssetAvailable:
				st.Available++
			case api.AssetAssigned:
				st.Assigned++
			case api.AssetMaintenance:
				st.Maintenance++
			case api.AssetBroken:
				st.Broken++
			}
		}
		for _, r := range d.requests {
			switch r.Status {
			case api.RequestPending:
				st.PendingRequests++
			case api.RequestApproved:
				st.ApprovedRequests++
			case api.RequestDenied:
				st.DeniedRequests++
			case api.RequestCompleted:
				st.CompletedRequests++
			}
		}
		return nil
	})
	return st
}

func matches(filter, value string) bool {
	filter = strings.TrimSpace(filter)
	return filter == "" || filter == api.FilterAll || filter == value
}
