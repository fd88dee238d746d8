package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/bucoapprove/mondash/internal/dataset"
	"github.com/bucoapprove/mondash/internal/models"
	"github.com/bucoapprove/mondash/internal/store"
)

// Server provides the REST API over stored dataset snapshots. It is a
// read-only surface: fetching new data stays a CLI concern.
type Server struct {
	store store.Store
}

// NewServer creates a new API server.
func NewServer(s store.Store) *Server {
	return &Server{store: s}
}

// Router returns an http.Handler for the API routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/records", s.listRecords)
	mux.HandleFunc("GET /api/v1/stats", s.stats)
	mux.HandleFunc("GET /api/v1/snapshots", s.listSnapshots)
	mux.HandleFunc("GET /api/v1/snapshots/{id}", s.getSnapshot)

	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// resolveSnapshot picks the snapshot named by ?snapshot=, defaulting to
// the latest one.
func (s *Server) resolveSnapshot(r *http.Request) (*models.Snapshot, error) {
	if id := r.URL.Query().Get("snapshot"); id != "" {
		return s.store.GetSnapshot(r.Context(), id)
	}
	return s.store.LatestSnapshot(r.Context())
}

// GET /api/v1/records?snapshot=&urgency=&person=&board=&exclude_status=
func (s *Server) listRecords(w http.ResponseWriter, r *http.Request) {
	snap, err := s.resolveSnapshot(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	q := r.URL.Query()
	filter := store.RecordFilter{
		Person:         q.Get("person"),
		Board:          q.Get("board"),
		ExcludedStatus: q["exclude_status"],
	}
	if u := q.Get("urgency"); u != "" {
		urg := models.Urgency(u)
		if u == "none" {
			urg = models.UrgencyNone
		}
		filter.Urgency = &urg
	}

	records, err := s.store.ListRecords(r.Context(), snap.ID, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"snapshot": snap,
		"records":  records,
	})
}

// GET /api/v1/stats?snapshot=
func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	snap, err := s.resolveSnapshot(r)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	records, err := s.store.ListRecords(r.Context(), snap.ID, store.RecordFilter{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"snapshot": snap,
		"stats":    dataset.ComputeStats(records),
	})
}

// GET /api/v1/snapshots?limit=
func (s *Server) listSnapshots(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	snaps, err := s.store.ListSnapshots(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snaps)
}

// GET /api/v1/snapshots/{id}
func (s *Server) getSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.GetSnapshot(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
