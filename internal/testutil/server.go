// Package testutil provides an in-memory ProFireManager API double for
// client, submission and end-to-end tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-contrib/sse"
	"github.com/go-chi/chi/v5"

	"github.com/profiremanager/pfm-cli/internal/domain"
)

// Server mimics the tenant-scoped REST surface the client consumes,
// including per-entry 409 conflicts and the attribution event stream.
type Server struct {
	Tenant string

	mu      sync.Mutex
	nextID  int64
	entries map[int64]domain.Availability
	types   []domain.TypeGarde
	slots   []domain.Assignation

	// FailCreate maps a date string to an HTTP status the create endpoint
	// returns for it, to exercise the non-conflict error path.
	FailCreate map[string]int

	// AttributionSteps is replayed on the progress stream.
	AttributionSteps []domain.AttributionProgress
	// CutStream drops the stream connection before any terminal message.
	CutStream bool

	httpServer *httptest.Server
}

func NewServer(tenant string) *Server {
	s := &Server{
		Tenant:     tenant,
		entries:    map[int64]domain.Availability{},
		FailCreate: map[string]int{},
	}

	r := chi.NewRouter()
	r.Route("/api/{tenant}", func(r chi.Router) {
		r.Use(s.requireTenant)
		r.Post("/disponibilites", s.createDisponibilite)
		r.Put("/disponibilites/{userID}", s.replaceDisponibilites)
		r.Delete("/disponibilites/{id}", s.deleteDisponibilite)
		r.Get("/disponibilites/{userID}", s.listDisponibilites)
		r.Get("/types-garde", s.listTypesGarde)
		r.Get("/planning/assignations", s.listAssignations)
		r.Post("/planning/attribution-auto", s.startAttribution)
		r.Get("/planning/attribution-auto/{taskID}/stream", s.streamAttribution)
	})

	s.httpServer = httptest.NewServer(r)
	return s
}

// BaseURL is what client.Options.BaseURL expects: host plus /api.
func (s *Server) BaseURL() string { return s.httpServer.URL + "/api" }

func (s *Server) Close() { s.httpServer.Close() }

// Seed inserts entries directly into the store, bypassing conflict checks.
func (s *Server) Seed(entries ...domain.Availability) []domain.Availability {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Availability, 0, len(entries))
	for _, e := range entries {
		s.nextID++
		e.ID = s.nextID
		s.entries[e.ID] = e
		out = append(out, e)
	}
	return out
}

func (s *Server) SeedTypes(types ...domain.TypeGarde) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types = append(s.types, types...)
}

func (s *Server) SeedAssignations(slots ...domain.Assignation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = append(s.slots, slots...)
}

// EntryCount reports how many entries the store holds.
func (s *Server) EntryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Server) requireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "tenant") != s.Tenant {
			writeDetail(w, http.StatusNotFound, "tenant inconnu")
			return
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			writeDetail(w, http.StatusUnauthorized, "jeton manquant")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) createDisponibilite(w http.ResponseWriter, r *http.Request) {
	var entry domain.Availability
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "corps invalide")
		return
	}

	if status, ok := s.FailCreate[entry.Date.String()]; ok {
		writeDetail(w, status, "erreur forcée")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var conflicts []domain.Availability
	for _, existing := range s.entries {
		if existing.Key() == entry.Key() {
			conflicts = append(conflicts, existing)
		}
	}
	if len(conflicts) > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"detail": map[string]any{"conflicts": conflicts},
		})
		return
	}

	s.nextID++
	entry.ID = s.nextID
	s.entries[entry.ID] = entry

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(entry)
}

func (s *Server) replaceDisponibilites(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "identifiant invalide")
		return
	}

	var entries []domain.Availability
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "corps invalide")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.entries {
		if existing.UserID == userID {
			delete(s.entries, id)
		}
	}
	for _, entry := range entries {
		entry.UserID = userID
		s.nextID++
		entry.ID = s.nextID
		s.entries[entry.ID] = entry
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteDisponibilite(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "identifiant invalide")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		writeDetail(w, http.StatusNotFound, "disponibilité introuvable")
		return
	}
	delete(s.entries, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listDisponibilites(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "identifiant invalide")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Availability, 0)
	for _, entry := range s.entries {
		if entry.UserID == userID {
			out = append(out, entry)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listTypesGarde(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.types)
}

func (s *Server) listAssignations(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.slots)
}

func (s *Server) startAttribution(w http.ResponseWriter, r *http.Request) {
	task := domain.AttributionTask{
		TaskID:    "task-1",
		StreamURL: fmt.Sprintf("/api/%s/planning/attribution-auto/task-1/stream", s.Tenant),
	}
	writeJSON(w, http.StatusAccepted, task)
}

func (s *Server) streamAttribution(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeDetail(w, http.StatusInternalServerError, "flush non supporté")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	for i, step := range s.AttributionSteps {
		if s.CutStream && step.Terminal() {
			// Drop the connection instead of delivering the terminal
			// message.
			return
		}
		_ = sse.Encode(w, sse.Event{
			Id:    strconv.Itoa(i),
			Event: "progress",
			Data:  step,
		})
		flusher.Flush()
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
