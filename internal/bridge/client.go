package bridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
)

// Envelope is the JSON message exchanged with WebSocket clients.
type Envelope struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Envelope types.
const (
	TypeCommand      = "command"      // client -> bridge: payload forwarded to the console
	TypeNotification = "notification" // bridge -> client: unsolicited console traffic
	TypeError        = "error"        // bridge -> client: a command was rejected
)

// clientBuffer is the per-client send queue length. A client that
// cannot drain this many notifications starts losing them, same as a
// slow driver subscriber.
const clientBuffer = 32

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// writePump is the sole writer on the client socket. It drains the
// send channel until dropClient closes it, then closes the socket.
func (c *client) writePump() {
	defer func() { _ = c.conn.Close() }()

	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}

	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readPump forwards client commands to the console until the socket
// closes. Commands go out with Send rather than Request, so the
// console's confirming echo stays in the broadcast stream and reaches
// every client, the sender included.
func (s *Server) readPump(c *client) {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			s.sendError(c, fmt.Sprintf("malformed envelope: %v", err))
			continue
		}
		if env.Type != TypeCommand {
			s.sendError(c, fmt.Sprintf("unsupported envelope type %q", env.Type))
			continue
		}
		if len(env.Payload) == 0 {
			s.sendError(c, "command payload is empty")
			continue
		}

		if err := s.drv.Send(context.Background(), env.Payload); err != nil {
			s.sendError(c, fmt.Sprintf("console send failed: %v", err))
		}
	}
}

// sendError queues an error envelope, dropping it if the client is
// already backed up.
func (s *Server) sendError(c *client, msg string) {
	data, err := json.Marshal(Envelope{Type: TypeError, Error: msg})
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
