package driver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/feathernet/ucremote/internal/logging"
	"github.com/feathernet/ucremote/internal/protocol"
)

// DefaultControlPort is the TCP port most consoles listen on. Newer
// rack units announce a different port over discovery; the announced
// port always wins when known.
const DefaultControlPort = 53000

var (
	// ErrBusy rejects a Request whose correlation key already has a
	// reply outstanding. Nothing is written to the socket.
	ErrBusy = errors.New("request already pending for this correlation key")

	// ErrClosed reports an operation on a closed connection, and is the
	// completion error for requests cut off by a deliberate Close.
	ErrClosed = errors.New("connection closed")
)

// State is the connection lifecycle position.
type State int

const (
	StateDisconnected State = iota
	StateConnected
	StateSubscribed
	StateClosed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateSubscribed:
		return "subscribed"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Driver multiplexes one control connection between requests and
// notifications. Create with Dial or New, then run the read loop with
// Run; every other method is safe to call from any goroutine.
type Driver struct {
	conn net.Conn
	opts options

	writeMu sync.Mutex // serializes socket writes

	mu        sync.Mutex // guards everything below
	state     State
	pending   map[string]chan *protocol.Packet
	listeners map[int]chan *protocol.Packet
	nextSub   int
	closed    bool
	termErr   error

	done chan struct{} // closed on terminate; wakes all waiters
}

// New wraps an established connection. Callers with custom dialing
// (tests use net.Pipe) come through here; everyone else uses Dial.
func New(conn net.Conn, opts ...Option) *Driver {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Driver{
		conn:      conn,
		opts:      o,
		state:     StateConnected,
		pending:   make(map[string]chan *protocol.Packet),
		listeners: make(map[int]chan *protocol.Packet),
		done:      make(chan struct{}),
	}
}

// Dial connects to a console and returns a ready Driver. The address
// may omit the port, in which case DefaultControlPort is used. The
// returned Driver does nothing until Run is started.
func Dial(ctx context.Context, addr string, opts ...Option) (*Driver, error) {
	addr = withDefaultPort(addr)

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	logging.LogConnection(addr, "connected")
	return New(conn, opts...), nil
}

// withDefaultPort appends DefaultControlPort when addr has none.
func withDefaultPort(addr string) string {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return net.JoinHostPort(addr, strconv.Itoa(DefaultControlPort))
	}
	return addr
}

// Run is the read loop and must be the only reader of the connection.
// It blocks until the connection dies: it returns nil after a
// deliberate Close or context cancellation, and the fatal error
// otherwise. The heartbeat runs on a side goroutine owned by Run.
func (d *Driver) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { d.Close() })
	defer stop()

	if d.opts.keepAlive > 0 {
		go d.keepAliveLoop()
	}

	err := d.readLoop()
	d.terminate(err)

	if err != nil {
		logging.Error("connection terminated", zap.Error(err))
	}
	return err
}

// readLoop reads, buffers, and dispatches frames until failure. A nil
// return means the socket died after a deliberate Close.
func (d *Driver) readLoop() error {
	buf := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)

	for {
		n, err := d.conn.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)

			for {
				pkt, consumed, derr := protocol.Decode(buf)
				if derr != nil {
					return derr
				}
				if pkt == nil {
					break // need more data
				}
				buf = buf[consumed:]

				logging.LogFrame("recv", protocol.Describe(pkt), consumed, pkt.Compressed)
				d.dispatch(pkt)
			}
		}
		if err != nil {
			if d.isClosed() {
				return nil
			}
			return fmt.Errorf("read failed: %w", err)
		}
	}
}

// keepAliveLoop writes a heartbeat at the configured cadence until the
// connection terminates.
func (d *Driver) keepAliveLoop() {
	ticker := time.NewTicker(d.opts.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-d.done:
			return
		case <-ticker.C:
			if err := d.writePacket(protocol.NewPacket(protocol.BuildKeepAlive())); err != nil {
				logging.Debug("keepalive write failed", zap.Error(err))
				return
			}
		}
	}
}

// Subscribe announces this client and registers for state pushes. It
// sends Hello (fire-and-forget, carrying the meter port) and then
// requests Subscribe, blocking until the console acks. Pushes arriving
// before the ack flow to subscribers as usual.
func (d *Driver) Subscribe(ctx context.Context) error {
	if err := d.Send(ctx, protocol.BuildHello(d.opts.meterPort)); err != nil {
		return fmt.Errorf("hello failed: %w", err)
	}

	if _, err := d.Request(ctx, protocol.BuildSubscribe(d.opts.clientName)); err != nil {
		return fmt.Errorf("subscribe failed: %w", err)
	}

	d.mu.Lock()
	if d.state == StateConnected {
		d.state = StateSubscribed
	}
	d.mu.Unlock()

	logging.Info("subscribed", zap.String("remote_addr", d.conn.RemoteAddr().String()))
	return nil
}

// Send writes a payload without expecting a reply.
func (d *Driver) Send(ctx context.Context, payload map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.isClosed() {
		return ErrClosed
	}
	return d.writePacket(protocol.NewPacket(payload))
}

// Request writes a payload and waits for the reply that carries the
// same correlation key.
//
// Payloads with no derivable key cannot be requested; use Send. If a
// request for the same key is already outstanding, Request fails with
// ErrBusy and writes nothing. Context expiry abandons the expectation,
// downgrading a late reply to a notification. A connection failure
// completes the wait with the terminal error (ErrClosed after a
// deliberate Close).
func (d *Driver) Request(ctx context.Context, payload map[string]any) (*protocol.Packet, error) {
	pkt := protocol.NewPacket(payload)

	key, ok := pkt.CorrelationKey()
	if !ok {
		return nil, fmt.Errorf("payload %s has no reply signal; use Send", protocol.Describe(pkt))
	}

	ch := make(chan *protocol.Packet, 1)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, ErrClosed
	}
	if _, exists := d.pending[key]; exists {
		d.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrBusy, key)
	}
	d.pending[key] = ch
	d.mu.Unlock()

	if err := d.writePacket(pkt); err != nil {
		d.mu.Lock()
		delete(d.pending, key)
		d.mu.Unlock()
		return nil, err
	}

	select {
	case reply := <-ch:
		return reply, nil
	case <-ctx.Done():
		d.mu.Lock()
		if _, stillPending := d.pending[key]; stillPending {
			delete(d.pending, key)
			d.mu.Unlock()
			return nil, ctx.Err()
		}
		d.mu.Unlock()
		// The entry is gone: either the reply was routed to us in the
		// same instant, or the connection terminated. Prefer the reply.
		select {
		case reply := <-ch:
			return reply, nil
		default:
			return nil, ctx.Err()
		}
	case <-d.done:
		// The reply may have been delivered just before termination.
		select {
		case reply := <-ch:
			return reply, nil
		default:
		}
		return nil, d.terminalError()
	}
}

// Close tears the connection down. It is idempotent and safe to call
// concurrently with everything else: in-flight requests complete with
// ErrClosed, subscriber channels close, and Run returns nil.
func (d *Driver) Close() error {
	d.terminate(nil)
	return nil
}

// terminate moves the driver to StateClosed exactly once. A nil err
// marks a deliberate close; otherwise err becomes the terminal error
// pending requests fail with.
func (d *Driver) terminate(err error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.state = StateClosed
	if err != nil {
		d.termErr = err
	} else {
		d.termErr = ErrClosed
	}

	// Waiters wake via done and read termErr; the entries are dead.
	d.pending = make(map[string]chan *protocol.Packet)

	for id, ch := range d.listeners {
		close(ch)
		delete(d.listeners, id)
	}
	d.mu.Unlock()

	close(d.done)
	d.conn.Close()

	logging.LogConnection(d.conn.RemoteAddr().String(), "closed")
}

// State reports the connection lifecycle position.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// RemoteAddr returns the console's address.
func (d *Driver) RemoteAddr() net.Addr {
	return d.conn.RemoteAddr()
}

// Done is closed when the connection has fully terminated.
func (d *Driver) Done() <-chan struct{} {
	return d.done
}

func (d *Driver) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *Driver) terminalError() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.termErr
}

// writePacket encodes and writes one frame. Writes from Request, Send,
// and the heartbeat are serialized so frames never interleave.
func (d *Driver) writePacket(pkt *protocol.Packet) error {
	frame, err := pkt.Encode()
	if err != nil {
		return err
	}

	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	if _, err := d.conn.Write(frame); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}

	logging.LogFrame("send", protocol.Describe(pkt), len(frame), pkt.Compressed)
	return nil
}
