// Package server provides the HTTP REST API for the agent registration
// service.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/agent-registration/internal/assembly"
	"github.com/jonathan/agent-registration/internal/classify"
	"github.com/jonathan/agent-registration/internal/config"
	"github.com/jonathan/agent-registration/internal/db"
	"github.com/jonathan/agent-registration/internal/pdf"
	"github.com/jonathan/agent-registration/internal/types"
)

// Store is the persistence surface the handlers use. *db.DB implements it;
// tests substitute a fake.
type Store interface {
	CreateAgent(ctx context.Context, agent *types.Agent) error
	GetAgent(ctx context.Context, id uuid.UUID) (*types.Agent, error)
	ListAgents(ctx context.Context) ([]types.Agent, error)
	UpdateAgent(ctx context.Context, agent *types.Agent) error
	DeleteAgent(ctx context.Context, id uuid.UUID) error
	PutAddendum(ctx context.Context, agentID uuid.UUID, kind types.AddendumKind, name string, data []byte) error
	DeleteAddendum(ctx context.Context, agentID uuid.UUID, kind types.AddendumKind) error
	LoadAddendumPayloads(ctx context.Context, agent *types.Agent) error

	CreateForm(ctx context.Context, form *types.RegistrationForm) error
	GetForm(ctx context.Context, id uuid.UUID) (*types.RegistrationForm, error)
	ListForms(ctx context.Context) ([]types.RegistrationForm, error)
	UpdateForm(ctx context.Context, form *types.RegistrationForm) error
	DeleteForm(ctx context.Context, id uuid.UUID) error

	PutBlob(ctx context.Context, key string, data []byte) error
	GetBlob(ctx context.Context, key string) ([]byte, error)
	DeleteBlob(ctx context.Context, key string) error

	CreateGeneration(ctx context.Context, gen *db.Generation) error
	GetGeneration(ctx context.Context, id uuid.UUID) (*db.Generation, error)
	ListGenerations(ctx context.Context, formID, agentID uuid.UUID, limit int) ([]db.Generation, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	store      Store
	backend    pdf.Backend
	assembler  *assembly.Assembler
	consensus  classify.Config
	maxUpload  int64
	closeStore func()
}

// New creates a new server instance
func New(cfg config.Config) (*Server, error) {
	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	backend := pdf.NewEngine()
	s := newServer(database, backend, cfg)
	s.closeStore = database.Close
	return s, nil
}

// newServer wires the handlers; split from New so tests can inject fakes.
func newServer(store Store, backend pdf.Backend, cfg config.Config) *Server {
	s := &Server{
		store:     store,
		backend:   backend,
		assembler: assembly.New(backend, nil),
		consensus: cfg.Consensus(),
		maxUpload: int64(cfg.MaxUploadMB) << 20,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(s.routes())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // generation merges large PDFs
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Agent endpoints
	mux.HandleFunc("POST /agents", s.handleCreateAgent)
	mux.HandleFunc("GET /agents", s.handleListAgents)
	mux.HandleFunc("GET /agents/{id}", s.handleGetAgent)
	mux.HandleFunc("PUT /agents/{id}", s.handleUpdateAgent)
	mux.HandleFunc("DELETE /agents/{id}", s.handleDeleteAgent)

	// Addendum endpoints
	mux.HandleFunc("PUT /agents/{id}/addendums/{kind}", s.handlePutAddendum)
	mux.HandleFunc("DELETE /agents/{id}/addendums/{kind}", s.handleDeleteAddendum)

	// Form endpoints
	mux.HandleFunc("POST /forms", s.handleCreateForm)
	mux.HandleFunc("GET /forms", s.handleListForms)
	mux.HandleFunc("GET /forms/{id}", s.handleGetForm)
	mux.HandleFunc("DELETE /forms/{id}", s.handleDeleteForm)
	mux.HandleFunc("POST /forms/{id}/source", s.handleReuploadForm)
	mux.HandleFunc("POST /forms/{id}/classify", s.handleClassifyForm)
	mux.HandleFunc("PUT /forms/{id}/mappings/{field}", s.handleSetMapping)
	mux.HandleFunc("PUT /forms/{id}/slots", s.handleSetSlots)
	mux.HandleFunc("PUT /forms/{id}/placements", s.handleSetPlacements)

	// Generation endpoints
	mux.HandleFunc("POST /generate", s.handleGenerate)
	mux.HandleFunc("POST /generate/batch", s.handleGenerateBatch)
	mux.HandleFunc("GET /generations", s.handleListGenerations)
	mux.HandleFunc("GET /generations/{id}", s.handleGetGeneration)
	mux.HandleFunc("GET /generations/{id}/document", s.handleGetGenerationDocument)

	// Dataset endpoints
	mux.HandleFunc("GET /export", s.handleExport)
	mux.HandleFunc("POST /import", s.handleImport)

	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.closeStore != nil {
		s.closeStore()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errResponse writes an error response with the status derived from the
// error's type.
func (s *Server) errResponse(w http.ResponseWriter, err error) {
	s.errorResponse(w, HTTPStatus(err), err.Error())
}
