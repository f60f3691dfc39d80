package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/tgschema/internal/config"
	"github.com/dgallion1/tgschema/internal/pipeline"
)

// Server is the HTTP API server for tgschema.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	contract     []byte
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. contract is the JSON
// Schema document served at /api/contract.
func NewServer(orch *pipeline.Orchestrator, contract []byte, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		contract:     contract,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Route("/api", func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/schema", s.handleSchema)

		r.Post("/builds", s.handleSubmitBuild)
		r.Get("/builds/{jobID}/status", s.handleBuildStatus)
		r.Get("/builds/{jobID}/schema", s.handleBuildSchema)

		r.Get("/stats/builds", s.handleBuildStats)
		r.Get("/contract", s.handleContract)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleContract(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	w.Write(s.contract)
}
