package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/viant/i18nlens/config"
	"github.com/viant/i18nlens/inspector/repository"
	"github.com/viant/i18nlens/session"
)

// Server is the HTTP API over an editor session
type Server struct {
	router     chi.Router
	session    *session.Session
	repository *repository.Repository
	cfg        *config.Config
	log        zerolog.Logger
}

// NewServer creates and configures the HTTP server, a nil repository disables saving
func NewServer(sess *session.Session, repo *repository.Repository, cfg *config.Config, log zerolog.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{
		session:    sess,
		repository: repo,
		cfg:        cfg,
		log:        log,
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

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/languages", s.handleLanguages)
		r.Put("/language", s.handleSwitchLanguage)

		r.Get("/source", s.handleSource)
		r.Get("/symbols", s.handleSymbols)
		r.Get("/symbols/{keyChain}", s.handleSymbol)
		r.Get("/search", s.handleSearch)
		r.Get("/compare", s.handleCompare)

		r.Put("/resource", s.handleApplyEdit)
		r.Put("/resources/{language}/{keyChain}", s.handleUpdateAt)
		r.Post("/save", s.handleSave)

		r.Post("/document", s.handleAttach)
		r.Delete("/document", s.handleDetach)
		r.Get("/selection", s.handleSelection)
		r.Post("/selection", s.handleSelect)
		r.Post("/selection/pointer", s.handlePointer)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func jsonResponse(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(value)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
