package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/five82/equip/internal/api"
	"github.com/five82/equip/internal/session"
)

// Options configure a Server.
type Options struct {
	// Latency delays every API response. Used to exercise client timeouts.
	Latency time.Duration
	// Metrics mounts /metrics and records request counters.
	Metrics bool
	// Now overrides the clock used for server-assigned dates.
	Now func() time.Time
}

// Server is an in-memory implementation of the equipment API.
type Server struct {
	Router  *chi.Mux
	Store   *Store
	Metrics *Metrics
	latency time.Duration
}

// New builds a Server with its routes mounted.
func New(opts Options) *Server {
	store := NewStore(opts.Now)
	s := &Server{
		Router:  chi.NewRouter(),
		Store:   store,
		latency: opts.Latency,
	}

	if opts.Metrics {
		s.Metrics = NewMetrics(store)
		s.Router.Use(s.Metrics.Middleware())
		s.Router.Get("/metrics", s.Metrics.Handler().ServeHTTP)
	}

	s.Router.Get("/api/health", s.health)

	s.Router.Group(func(r chi.Router) {
		r.Use(s.delay)
		r.Use(requireSession)

		r.Get("/api/assets", s.listAssets)
		r.Post("/api/assets", s.createAsset)
		r.Put("/api/assets/{id}", s.updateAsset)
		r.Delete("/api/assets/{id}", s.deleteAsset)

		r.Get("/api/requests", s.listRequests)
		r.Post("/api/requests", s.createRequest)
		r.Patch("/api/requests/{id}", s.updateRequest)

		r.Get("/api/stats", s.stats)
	})
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("equip demo api listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

type ctxKey struct{}

func sessionFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// requireSession rejects calls without a session header, matching a
// required-header validation failure.
func requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(session.HeaderName)
		if id == "" {
			http.Error(w, "missing session header", http.StatusUnprocessableEntity)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func (s *Server) delay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.latency > 0 {
			timer := time.NewTimer(s.latency)
			select {
			case <-timer.C:
			case <-r.Context().Done():
				timer.Stop()
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, api.Health{
		Status:    "ok",
		Database:  false,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func filterFrom(r *http.Request) api.Filter {
	q := r.URL.Query()
	return api.Filter{Status: q.Get("status"), User: q.Get("user")}
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) listAssets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Store.ListAssets(sessionFrom(r.Context()), filterFrom(r)))
}

func (s *Server) createAsset(w http.ResponseWriter, r *http.Request) {
	var in api.AssetInput
	if !decode(w, r, &in) {
		return
	}
	created, err := s.Store.CreateAsset(sessionFrom(r.Context()), in)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

func (s *Server) updateAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var u api.AssetUpdate
	if !decode(w, r, &u) {
		return
	}
	updated, err := s.Store.UpdateAsset(sessionFrom(r.Context()), id, u)
	if err != nil {
		writeStoreError(w, err, "Asset not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := s.Store.DeleteAsset(sessionFrom(r.Context()), id); err != nil {
		writeStoreError(w, err, "Asset not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listRequests(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Store.ListRequests(sessionFrom(r.Context()), filterFrom(r)))
}

func (s *Server) createRequest(w http.ResponseWriter, r *http.Request) {
	var in api.RequestInput
	if !decode(w, r, &in) {
		return
	}
	created, err := s.Store.CreateRequest(sessionFrom(r.Context()), in)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

func (s *Server) updateRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var body struct {
		Status api.RequestStatus `json:"status"`
	}
	if !decode(w, r, &body) {
		return
	}
	if body.Status == 0 {
		http.Error(w, "status is required", http.StatusBadRequest)
		return
	}
	updated, err := s.Store.SetRequestStatus(sessionFrom(r.Context()), id, body.Status)
	if err != nil {
		writeStoreError(w, err, "Request not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Store.Stats(sessionFrom(r.Context())))
}

func writeStoreError(w http.ResponseWriter, err error, notFound string) {
	if errors.Is(err, errNotFound) {
		http.Error(w, notFound, http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusBadRequest)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("encode response: %v", err)
	}
}
