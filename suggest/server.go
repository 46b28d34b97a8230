package suggest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
)

// Server serves an autocomplete endpoint backed by a Provider, in the format
// HTTPProvider consumes.
type Server struct {
	provider Provider
	log      *slog.Logger
	router   *httprouter.Router
	server   *http.Server
}

// NewServer creates a server for p. A nil logger discards diagnostics.
func NewServer(p Provider, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		provider: p,
		log:      log,
		router:   httprouter.New(),
	}
	s.setupRoutes()
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/autocomplete", s.handleAutocomplete)
	s.router.GET("/health", s.handleHealth)
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve accepts connections on l until Stop is called. It returns
// http.ErrServerClosed after a clean stop.
func (s *Server) Serve(l net.Listener) error {
	s.log.Info("serving suggestions", "addr", l.Addr().String())
	return s.server.Serve(l)
}

// Stop shuts the server down, waiting up to five seconds for requests to
// finish.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleAutocomplete(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query().Get("query")
	list, err := s.provider.Lookup(r.Context(), query)
	if err != nil {
		s.log.ErrorContext(r.Context(), "lookup failed", "query", query, "err", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "lookup failed"})
		return
	}
	if list == nil {
		list = []Suggestion{}
	}
	s.log.DebugContext(r.Context(), "lookup", "query", query, "results", len(list))
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
