package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const (
	shutdownTimeout = 5 * time.Second
	readTimeout     = 10 * time.Second
	writeTimeout    = 30 * time.Second
)

type Server struct {
	http *http.Server
	log  *zap.Logger
}

func New(port string, handler http.Handler, log *zap.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:              net.JoinHostPort("localhost", port),
			Handler:           handler,
			ReadHeaderTimeout: readTimeout,
			ReadTimeout:       readTimeout,
			WriteTimeout:      writeTimeout,
		},
		log: log,
	}
}

// Start binds the listener synchronously so a busy port is reported to the
// caller, then serves until ctx is done or SIGINT/SIGTERM arrives.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("не удалось занять адрес %s: %w", s.http.Addr, err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		s.log.Info("HTTP сервер слушает", zap.String("address", ln.Addr().String()))
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("ошибка HTTP сервера: %w", err)
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	s.log.Info("Остановка HTTP сервера")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ошибка при завершении сервера: %w", err)
	}
	s.log.Info("HTTP сервер остановлен")
	return nil
}
