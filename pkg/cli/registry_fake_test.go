package cli

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/protoreg/pkg/httputil"
	"github.com/platinummonkey/protoreg/pkg/registry"
)

// fakeServer is an in-memory Confluent-style registry backend
type fakeServer struct {
	mu       sync.Mutex
	subjects map[string][]*registry.RegisteredSchema
	nextID   int
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		subjects: make(map[string][]*registry.RegisteredSchema),
		nextID:   100,
	}
}

func (s *fakeServer) handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/subjects/{subject}/versions/latest", s.handleLatest).Methods(http.MethodGet)
	r.HandleFunc("/subjects/{subject}/versions/{version:[0-9]+}", s.handleVersion).Methods(http.MethodGet)
	r.HandleFunc("/subjects/{subject}/versions", s.handleRegister).Methods(http.MethodPost)
	return r
}

func (s *fakeServer) seed(reg *registry.RegisteredSchema) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subjects[reg.Subject] = append(s.subjects[reg.Subject], reg)
}

func (s *fakeServer) versions(subject string) []*registry.RegisteredSchema {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subjects[subject]
}

func (s *fakeServer) handleLatest(w http.ResponseWriter, r *http.Request) {
	subject := mux.Vars(r)["subject"]

	s.mu.Lock()
	versions := s.subjects[subject]
	s.mu.Unlock()

	if len(versions) == 0 {
		httputil.WriteNotFoundError(w, "subject not found")
		return
	}
	httputil.WriteSuccess(w, versions[len(versions)-1])
}

func (s *fakeServer) handleVersion(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	subject := vars["subject"]
	version, _ := strconv.Atoi(vars["version"])

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, reg := range s.subjects[subject] {
		if reg.Version == version {
			httputil.WriteSuccess(w, reg)
			return
		}
	}
	httputil.WriteNotFoundError(w, "version not found")
}

func (s *fakeServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	subject := mux.Vars(r)["subject"]

	var req struct {
		Schema     string               `json:"schema"`
		SchemaType registry.SchemaType  `json:"schemaType"`
		References []registry.Reference `json:"references"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteValidationError(w, "malformed request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	reg := &registry.RegisteredSchema{
		Subject:    subject,
		ID:         s.nextID,
		Version:    len(s.subjects[subject]) + 1,
		SchemaType: req.SchemaType,
		Schema:     req.Schema,
		References: req.References,
	}
	s.subjects[subject] = append(s.subjects[subject], reg)

	httputil.WriteCreated(w, map[string]int{"id": reg.ID, "version": reg.Version})
}
