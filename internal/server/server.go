// Package server exposes the filter evaluator over HTTP and WebSocket,
// grounded on the teacher's own use of net/http and
// github.com/gorilla/websocket in internal/network/http_server.go and
// internal/network/websocket_server.go, rewritten from proxy/scanner
// scaffolding into a small evaluation service.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"vcffilter/internal/filter"
	"vcffilter/internal/record"
	"vcffilter/internal/schema"
)

// namedSchema is the subset of schema store implementations (schema.Memory,
// schemastore.Store) the server needs to translate a decoded JSON record's
// tag names back to header ids.
type namedSchema interface {
	schema.Schema
	Names() map[int]string
}

// Server holds compiled programs keyed by their uuid and the schema they
// were compiled against.
type Server struct {
	sch namedSchema

	mu       sync.RWMutex
	programs map[uuid.UUID]*filter.Program

	upgrader websocket.Upgrader
}

// New returns a Server evaluating expressions against sch.
func New(sch namedSchema) *Server {
	return &Server{
		sch:      sch,
		programs: make(map[uuid.UUID]*filter.Program),
		upgrader: websocket.Upgrader{ReadBufferSize: 4096, WriteBufferSize: 4096},
	}
}

// Handler returns the mux wiring /compile, /evaluate, and /stream.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/compile", s.handleCompile)
	mux.HandleFunc("/evaluate", s.handleEvaluate)
	mux.HandleFunc("/stream", s.handleStream)
	return mux
}

type compileRequest struct {
	Expr string `json:"expr"`
}

type compileResponse struct {
	ID string `json:"id"`
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	var req compileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	prog, err := filter.Compile(s.sch, req.Expr)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.mu.Lock()
	s.programs[prog.ID] = prog
	s.mu.Unlock()

	writeJSON(w, compileResponse{ID: prog.ID.String()})
}

type evaluateRequest struct {
	ID     string          `json:"id"`
	Record json.RawMessage `json:"record"`
}

type evaluateResponse struct {
	SitePass   bool   `json:"site_pass"`
	SamplePass []bool `json:"sample_pass"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	resp, err := s.evaluateOne(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, resp)
}

func (s *Server) evaluateOne(req evaluateRequest) (evaluateResponse, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return evaluateResponse{}, err
	}
	s.mu.RLock()
	prog, ok := s.programs[id]
	s.mu.RUnlock()
	if !ok {
		return evaluateResponse{}, errUnknownProgram(req.ID)
	}

	rec, err := record.NewJSONRecord(req.Record, s.sch.Names(), s.sch.IDOf, record.TypeCodeFromString)
	if err != nil {
		return evaluateResponse{}, err
	}

	site, samples, err := filter.Evaluate(prog, rec)
	if err != nil {
		return evaluateResponse{}, err
	}
	return evaluateResponse{SitePass: site, SamplePass: samples}, nil
}

// handleStream upgrades to a WebSocket and evaluates one record per
// inbound text message, writing back the verdict as JSON.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var req evaluateRequest
		if err := json.Unmarshal(data, &req); err != nil {
			conn.WriteJSON(map[string]string{"error": err.Error()})
			continue
		}
		resp, err := s.evaluateOne(req)
		if err != nil {
			conn.WriteJSON(map[string]string{"error": err.Error()})
			continue
		}
		if err := conn.WriteJSON(resp); err != nil {
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

type errUnknownProgram string

func (e errUnknownProgram) Error() string { return "unknown program id: " + string(e) }
