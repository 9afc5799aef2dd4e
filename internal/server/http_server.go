package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
)

const service = "pdf_tools"

type HTTPServer struct {
	server *http.Server
	log    *logger.ZapLogger
}

type Option func(*HTTPServer)

func NewHTTPServer(handler http.Handler, log *logger.ZapLogger, options ...Option) *HTTPServer {
	srv := &HTTPServer{
		server: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}

	for _, opt := range options {
		opt(srv)
	}

	return srv
}

func WithAddress(address string) Option {
	return func(srv *HTTPServer) {
		srv.server.Addr = address
	}
}

// WithTimeouts: конвертация больших PDF бывает долгой, поэтому write-таймаут задаётся снаружи
func WithTimeouts(read, write, idle time.Duration) Option {
	return func(srv *HTTPServer) {
		srv.server.ReadTimeout = read
		srv.server.WriteTimeout = write
		srv.server.IdleTimeout = idle
	}
}

func WithMiddleware(middlewares ...func(http.Handler) http.Handler) Option {
	return func(srv *HTTPServer) {
		for _, middleware := range middlewares {
			srv.server.Handler = middleware(srv.server.Handler)
		}
	}
}

func (s *HTTPServer) Addr() string {
	return s.server.Addr
}

// Start блокирует до остановки; штатный Shutdown ошибкой не считается
func (s *HTTPServer) Start() error {
	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "listening at " + s.server.Addr,
		Service: service,
	})

	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "stopping http server at " + s.server.Addr,
		Service: service,
	})
	return s.server.Shutdown(ctx)
}
