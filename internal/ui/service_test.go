package ui

import (
	"context"
	"sync"
	"time"

	"github.com/five82/equip/internal/api"
	"github.com/five82/equip/internal/mockapi"
)

// storeService serves the screens straight from the in-memory demo store
// and lets tests inject failures per operation.
type storeService struct {
	store   *mockapi.Store
	session string

	mu      sync.Mutex
	filters []api.Filter
	calls   map[api.Op]int
	fail    map[api.Op]error
}

var _ api.Service = (*storeService)(nil)

func newStoreService() *storeService {
	return &storeService{
		store:   mockapi.NewStore(func() time.Time { return time.Date(2025, 2, 3, 9, 0, 0, 0, time.UTC) }),
		session: "6f1c1d55-8a1e-4d0f-9a57-5c1f1f6a0b11",
		calls:   make(map[api.Op]int),
		fail:    make(map[api.Op]error),
	}
}

func (s *storeService) record(op api.Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[op]++
	if err, ok := s.fail[op]; ok {
		return &api.OpError{Op: op, Err: err}
	}
	return nil
}

func (s *storeService) failWith(op api.Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, op)
		return
	}
	s.fail[op] = err
}

func (s *storeService) count(op api.Op) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *storeService) lastFilter() api.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.filters) == 0 {
		return api.Filter{}
	}
	return s.filters[len(s.filters)-1]
}

func (s *storeService) noteFilter(f api.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = append(s.filters, f)
}

func (s *storeService) ListAssets(_ context.Context, filter api.Filter) ([]api.Asset, error) {
	s.noteFilter(filter)
	if err := s.record(api.OpFetchAssets); err != nil {
		return nil, err
	}
	return s.store.ListAssets(s.session, filter), nil
}

func (s *storeService) CreateAsset(_ context.Context, input api.AssetInput) (api.Asset, error) {
	if err := s.record(api.OpCreateAsset); err != nil {
		return api.Asset{}, err
	}
	a, err := s.store.CreateAsset(s.session, input)
	if err != nil {
		return api.Asset{}, &api.OpError{Op: api.OpCreateAsset, Err: err}
	}
	return a, nil
}

func (s *storeService) UpdateAsset(_ context.Context, id int64, update api.AssetUpdate) (api.Asset, error) {
	if err := s.record(api.OpUpdateAsset); err != nil {
		return api.Asset{}, err
	}
	a, err := s.store.UpdateAsset(s.session, id, update)
	if err != nil {
		return api.Asset{}, &api.OpError{Op: api.OpUpdateAsset, Err: err}
	}
	return a, nil
}

func (s *storeService) DeleteAsset(_ context.Context, id int64) error {
	if err := s.record(api.OpDeleteAsset); err != nil {
		return err
	}
	if err := s.store.DeleteAsset(s.session, id); err != nil {
		return &api.OpError{Op: api.OpDeleteAsset, Err: err}
	}
	return nil
}

func (s *storeService) ListRequests(_ context.Context, filter api.Filter) ([]api.Request, error) {
	s.noteFilter(filter)
	if err := s.record(api.OpFetchRequests); err != nil {
		return nil, err
	}
	return s.store.ListRequests(s.session, filter), nil
}

func (s *storeService) CreateRequest(_ context.Context, input api.RequestInput) (api.Request, error) {
	if err := s.record(api.OpCreateRequest); err != nil {
		return api.Request{}, err
	}
	r, err := s.store.CreateRequest(s.session, input)
	if err != nil {
		return api.Request{}, &api.OpError{Op: api.OpCreateRequest, Err: err}
	}
	return r, nil
}

func (s *storeService) UpdateRequestStatus(_ context.Context, id int64, status api.RequestStatus) (api.Request, error) {
	if err := s.record(api.OpUpdateRequest); err != nil {
		return api.Request{}, err
	}
	r, err := s.store.SetRequestStatus(s.session, id, status)
	if err != nil {
		return api.Request{}, &api.OpError{Op: api.OpUpdateRequest, Err: err}
	}
	return r, nil
}

func (s *storeService) FetchStats(_ context.Context) (api.Stats, error) {
	if err := s.record(api.OpFetchStats); err != nil {
		return api.Stats{}, err
	}
	return s.store.Stats(s.session), nil
}
