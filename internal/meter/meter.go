// Package meter receives the console's UDP level feed.
//
// After the hello exchange advertises a meter port, the console sends
// level datagrams to it several times a second. Each datagram carries
// exactly one frame (same codec as the control stream) with a
// MeterLevels payload. The feed is lossy by nature, so undecodable
// datagrams are dropped rather than treated as fatal.
package meter

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/feathernet/ucremote/internal/logging"
	"github.com/feathernet/ucremote/internal/protocol"
)

// Update is one decoded level report.
type Update struct {
	Levels     []float64
	ReceivedAt time.Time
}

const updateBuffer = 8

// Listener owns the UDP socket the console sends levels to.
type Listener struct {
	conn      *net.UDPConn
	updates   chan Update
	closeOnce sync.Once
}

// Open binds a UDP socket for the level feed. Port 0 picks an
// ephemeral port; pass Port() to the console in the hello payload.
func Open(port int) (*Listener, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: port})
	if err != nil {
		return nil, fmt.Errorf("failed to bind meter port %d: %w", port, err)
	}
	return &Listener{
		conn:    conn,
		updates: make(chan Update, updateBuffer),
	}, nil
}

// Port returns the bound local port.
func (l *Listener) Port() int {
	return l.conn.LocalAddr().(*net.UDPAddr).Port
}

// Updates delivers level reports. A slow consumer loses reports rather
// than delaying the feed. The channel closes when Run returns.
func (l *Listener) Updates() <-chan Update {
	return l.updates
}

// Run reads the socket until ctx ends or the listener is closed.
func (l *Listener) Run(ctx context.Context) {
	stop := context.AfterFunc(ctx, func() { l.Close() })
	defer stop()
	defer close(l.updates)

	buf := make([]byte, 65535)
	for {
		n, _, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			return
		}

		pkt, _, derr := protocol.Decode(buf[:n])
		if derr != nil || pkt == nil {
			logging.Debug("Discarding undecodable meter datagram", zap.Int("bytes", n))
			continue
		}
		if pkt.Kind() != protocol.KindMeterLevels {
			continue
		}
		levels, ok := pkt.Floats("levels")
		if !ok {
			continue
		}

		select {
		case l.updates <- Update{Levels: levels, ReceivedAt: time.Now()}:
		default:
		}
	}
}

// Close releases the socket. Safe to call more than once.
func (l *Listener) Close() error {
	var err error
	l.closeOnce.Do(func() {
		err = l.conn.Close()
	})
	return err
}
