package bridge

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/feathernet/ucremote/internal/logging"
)

// Handler returns the bridge's HTTP routes: /ws for WebSocket clients
// and /healthz for probes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// handleWS upgrades the connection and registers the client for the
// notification fan-out.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}

	remoteAddr := conn.RemoteAddr().String()
	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}

	s.mu.Lock()
	s.clients[remoteAddr] = c
	s.mu.Unlock()
	logging.LogConnection(remoteAddr, "client_connected")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		c.writePump()
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.dropClient(remoteAddr)
		s.readPump(c)
	}()
}

// handleHealth reports the bridge and console connection status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"console": s.config.ConsoleAddr,
		"state":   s.drv.State().String(),
		"clients": s.GetActiveClients(),
	})
}
