package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/STTM-NSU/trading-app/internal/logger"
)

const (
	_readHeaderTimeout = 10 * time.Second
	_shutdownTimeout   = 5 * time.Second
)

type HTTPServer struct {
	s      *http.Server
	logger logger.Logger
}

func NewHTTPServer(ctx context.Context, port string, handler http.Handler, logger logger.Logger) *HTTPServer {
	return &HTTPServer{
		s: &http.Server{
			Handler:           handler,
			Addr:              ":" + port,
			ReadHeaderTimeout: _readHeaderTimeout,
			BaseContext: func(listener net.Listener) context.Context {
				return ctx
			},
		},
		logger: logger,
	}
}

func (s *HTTPServer) Addr() string {
	return s.s.Addr
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.s.Shutdown(ctx)
}

// Serve blocks on l until ctx is done, then shuts down gracefully.
func (s *HTTPServer) Serve(ctx context.Context, l net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.s.Serve(l)
	}()

	s.logger.Infof("listening on %s", l.Addr())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), _shutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%w: can't shutdown server", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *HTTPServer) Run(ctx context.Context) error {
	l, err := net.Listen("tcp", s.s.Addr)
	if err != nil {
		return fmt.Errorf("%w: can't listen on %s", err, s.s.Addr)
	}
	return s.Serve(ctx, l)
}
