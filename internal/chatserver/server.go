package chatserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/vaninafuentes/EcoBot/internal/config"
	"github.com/vaninafuentes/EcoBot/internal/logger"
)

// Server accepts TCP connections and runs one handler goroutine per
// session. The accept loop never does per-connection work.
type Server struct {
	cfg       *config.Config
	registry  *Registry
	histories *HistoryStore
	replier   Replier
	listener  net.Listener

	mu      sync.Mutex
	running bool

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewServer wires a server around the given reply function.
func NewServer(cfg *config.Config, replier Replier) *Server {
	return &Server{
		cfg:       cfg,
		registry:  NewRegistry(),
		histories: NewHistoryStore(cfg.MaxTurns),
		replier:   replier,
		stopChan:  make(chan struct{}),
	}
}

// Registry exposes the session registry, primarily for the admin console.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Histories exposes the per-session history store.
func (s *Server) Histories() *HistoryStore {
	return s.histories
}

// Addr returns the bound listen address, valid after Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start binds the configured address and launches the accept loop. A bind
// failure is the one fatal error of the server; it is returned to the
// caller, which is expected to terminate the process.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.running = true
	s.mu.Unlock()

	listener, err := net.Listen("tcp", s.cfg.SocketAddr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.SocketAddr(), err)
	}
	s.listener = listener

	s.wg.Add(1)
	go s.acceptLoop(ctx)

	logger.Info("EcoBot socket server escuchando en %s (max sessions: %d)", listener.Addr(), s.cfg.MaxSessions)
	return nil
}

// acceptLoop accepts connections until the context is cancelled or Stop
// is called. A short accept deadline keeps the stop channel observable.
func (s *Server) acceptLoop(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Accept loop stopped via context cancellation")
			return
		case <-s.stopChan:
			logger.Info("Accept loop stopped via stop signal")
			return
		default:
		}

		if tcpListener, ok := s.listener.(*net.TCPListener); ok {
			_ = tcpListener.SetDeadline(time.Now().Add(1 * time.Second))
		}

		conn, err := s.listener.Accept()
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				logger.Info("Listener closed, exiting accept loop")
				return
			}
			logger.Error("Error accepting connection: %v", err)
			continue
		}

		if s.cfg.MaxSessions > 0 && s.registry.Len() >= s.cfg.MaxSessions {
			logger.Warn("Session limit reached (%d), rejecting connection from %s", s.cfg.MaxSessions, conn.RemoteAddr())
			_, _ = conn.Write([]byte("Servidor lleno, intentá más tarde.\n"))
			_ = conn.Close()
			continue
		}

		s.wg.Add(1)
		go s.handleConn(ctx, conn)
	}
}

// Stop closes the listener, kills every live session and waits for the
// handlers to finish.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		logger.Info("Stopping EcoBot socket server...")
		close(s.stopChan)

		if s.listener != nil {
			if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
				logger.Error("Error closing listener: %v", err)
			}
		}

		for _, rec := range s.registry.List() {
			s.registry.Kill(rec.ID)
		}

		s.wg.Wait()

		s.mu.Lock()
		s.running = false
		s.mu.Unlock()

		logger.Info("EcoBot socket server stopped")
	})
}

// IsRunning reports whether the server has been started and not stopped.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
