// Package host exposes the skill to a voice-assistant host over HTTP. Hosts
// that can hold a websocket receive batches as each category finishes;
// others collect every batch in one request.
package host

import (
	"context"
	_ "embed"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mmcdole/plexskill/internal/catalog"
	"github.com/mmcdole/plexskill/internal/skill"
)

//go:embed icon.svg
var skillIcon []byte

// IconPath is where the embedded skill icon is served
const IconPath = "/icon.svg"

// Server is the host bridge
type Server struct {
	searcher *skill.Searcher
	catalog  *catalog.Provider
	logger   *slog.Logger

	httpServer *http.Server
}

// NewServer creates a host bridge listening on addr
func NewServer(addr string, searcher *skill.Searcher, provider *catalog.Provider, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		searcher: searcher,
		catalog:  provider,
		logger:   logger,
	}
	s.httpServer = &http.Server{
		Addr:        addr,
		Handler:     s.Router(),
		ReadTimeout: 15 * time.Second,
	}
	return s
}

// Router returns the bridge's routes
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", s.Health).Methods("GET")
	router.HandleFunc(IconPath, s.Icon).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/search", s.Search).Methods("GET")
	api.HandleFunc("/search/stream", s.SearchStream).Methods("GET")
	api.HandleFunc("/libraries", s.Libraries).Methods("GET")

	return router
}

// Start serves until Stop is called
func (s *Server) Start() error {
	s.logger.Info("starting host bridge", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
