package server

import (
	"context"
	"net/http"
	"time"

	"github.com/mandapam/portal/internal/config"
)

const readHeaderTimeout = 5 * time.Second

type Server struct {
	httpServer *http.Server
}

// NewServer leaves WriteTimeout at HttpServer.Timeout, which has to cover a
// submit or gateway call waiting out confirm retries and polling.
func NewServer(cfg *config.Config, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.HttpServer.Port,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
			ReadTimeout:       cfg.HttpServer.Timeout,
			WriteTimeout:      cfg.HttpServer.Timeout,
			IdleTimeout:       cfg.HttpServer.IdleTimeout,
		},
	}
}

func (s *Server) Run() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
