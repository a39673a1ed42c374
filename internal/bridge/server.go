package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/feathernet/ucremote/internal/driver"
	"github.com/feathernet/ucremote/internal/logging"
	"github.com/feathernet/ucremote/internal/protocol"
)

// Config holds the bridge configuration
type Config struct {
	Host        string
	Port        int
	ConsoleAddr string // control endpoint of the bridged console
	LogLevel    string
}

// Server owns the WebSocket side of the bridge. The console driver is
// injected already connected; the caller runs its read loop.
type Server struct {
	config     *Config
	drv        *driver.Driver
	httpServer *http.Server
	upgrader   websocket.Upgrader

	wg      sync.WaitGroup
	mu      sync.Mutex
	clients map[string]*client
}

// New creates a new Server instance around a connected driver.
func New(config *Config, drv *driver.Driver) *Server {
	return &Server{
		config:  config,
		drv:     drv,
		clients: make(map[string]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The bridge is a LAN tool, same trust model as the
			// console's own unauthenticated control port.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Start starts the HTTP listener and blocks until a shutdown signal
// arrives, the HTTP server fails, or the console connection dies.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	logging.Info("Starting UC Remote bridge",
		zap.String("addr", addr),
		zap.String("console", s.config.ConsoleAddr),
		zap.String("log_level", s.config.LogLevel),
	)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.httpServer = &http.Server{Handler: s.Handler()}

	logging.Info("Bridge listening for clients", zap.String("addr", addr))

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	httpErr := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			httpErr <- err
		}
	}()

	bridgeErr := make(chan error, 1)
	go func() { bridgeErr <- s.Run(ctx) }()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping bridge...")
		return s.Shutdown(context.Background())
	case err := <-httpErr:
		_ = s.Shutdown(context.Background())
		return err
	case err := <-bridgeErr:
		logging.Warn("Console stream ended", zap.Error(err))
		_ = s.Shutdown(context.Background())
		return err
	}
}

// Run fans the console's notification stream out to every connected
// client until ctx ends or the console connection closes. Start calls
// this; it is exported so embedders without the signal-handling outer
// loop can drive the bridge themselves.
func (s *Server) Run(ctx context.Context) error {
	notifs, cancel := s.drv.Listen()
	defer cancel()
	return s.run(ctx, notifs)
}

func (s *Server) run(ctx context.Context, notifs <-chan *protocol.Packet) error {
	for {
		select {
		case pkt, ok := <-notifs:
			if !ok {
				return driver.ErrClosed
			}
			s.broadcast(pkt)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// broadcast delivers one notification to every client, dropping it for
// clients whose send buffer is full.
func (s *Server) broadcast(pkt *protocol.Packet) {
	data, err := json.Marshal(Envelope{Type: TypeNotification, Payload: pkt.Payload})
	if err != nil {
		return
	}

	s.mu.Lock()
	for addr, c := range s.clients {
		select {
		case c.send <- data:
		default:
			logging.Warn("Client send buffer full, dropping notification",
				zap.String("remote_addr", addr))
		}
	}
	s.mu.Unlock()
}

// dropClient removes a client from the registry and closes its send
// channel exactly once; the write pump then closes the socket.
func (s *Server) dropClient(remoteAddr string) {
	s.mu.Lock()
	c, ok := s.clients[remoteAddr]
	if ok {
		delete(s.clients, remoteAddr)
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	close(c.send)
	logging.LogConnection(remoteAddr, "client_disconnected")
}

// Shutdown gracefully shuts down the bridge
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down bridge...")

	if s.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			logging.Error("Error shutting down HTTP server", zap.Error(err))
		}
	}

	// Close all connected clients
	s.mu.Lock()
	addrs := make([]string, 0, len(s.clients))
	for addr := range s.clients {
		addrs = append(addrs, addr)
	}
	s.mu.Unlock()
	for _, addr := range addrs {
		s.dropClient(addr)
	}

	// Wait for client pumps to finish with timeout
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All clients closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	case <-time.After(10 * time.Second):
		logging.Warn("Shutdown timeout after 10 seconds, forcing close")
	}

	// Sync logger
	logging.Sync()

	return nil
}

// GetActiveClients returns the number of connected WebSocket clients
func (s *Server) GetActiveClients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}
