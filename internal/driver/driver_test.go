package driver

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/feathernet/ucremote/internal/protocol"
)

const waitTimeout = 2 * time.Second

// console is the device end of a net.Pipe: it decodes every frame the
// driver writes onto the in channel and can inject frames back.
type console struct {
	conn net.Conn
	in   chan *protocol.Packet
}

func (c *console) readLoop() {
	buf := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)

	for {
		n, err := c.conn.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			for {
				pkt, consumed, derr := protocol.Decode(buf)
				if derr != nil || pkt == nil {
					break
				}
				buf = buf[consumed:]
				c.in <- pkt
			}
		}
		if err != nil {
			return
		}
	}
}

// recv returns the next frame the driver sent, or an error on timeout.
// Safe to call from helper goroutines; assertions stay in the test
// goroutine.
func (c *console) recv() (*protocol.Packet, error) {
	select {
	case pkt := <-c.in:
		return pkt, nil
	case <-time.After(waitTimeout):
		return nil, errors.New("timed out waiting for a frame from the driver")
	}
}

func (c *console) send(payload map[string]any, compress bool) error {
	frame, err := protocol.EncodePayload(payload, compress)
	if err != nil {
		return err
	}
	_, err = c.conn.Write(frame)
	return err
}

// newTestDriver wires a Driver to a fake console over net.Pipe and
// starts Run. Heartbeat is off unless a test re-enables it.
func newTestDriver(t *testing.T, opts ...Option) (*Driver, *console, chan error) {
	t.Helper()

	clientConn, serverConn := net.Pipe()

	d := New(clientConn, append([]Option{WithKeepAlive(0)}, opts...)...)
	c := &console{conn: serverConn, in: make(chan *protocol.Packet, 32)}
	go c.readLoop()

	runErr := make(chan error, 1)
	go func() { runErr <- d.Run(context.Background()) }()

	t.Cleanup(func() {
		d.Close()
		serverConn.Close()
	})
	return d, c, runErr
}

func TestDriver_RequestReply(t *testing.T) {
	d, c, _ := newTestDriver(t)

	notifs, cancel := d.Listen()
	defer cancel()

	// Echo the command, then push a sentinel notification.
	go func() {
		pkt, err := c.recv()
		if err != nil {
			return
		}
		_ = c.send(pkt.Payload, false)
		_ = c.send(map[string]any{"id": "StateSnapshot", "state": map[string]any{}}, false)
	}()

	reply, err := d.Request(context.Background(), protocol.BuildMute(1, true))
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if ch, _ := reply.Int("channel"); ch != 1 {
		t.Errorf("reply channel = %d, want 1", ch)
	}
	if mute, _ := reply.Bool("mute"); !mute {
		t.Error("reply mute = false, want true")
	}

	// The echo fulfilled the request, so it must not reach subscribers:
	// the first notification is the sentinel.
	select {
	case pkt := <-notifs:
		if pkt.Kind() != protocol.KindStateSnapshot {
			t.Errorf("first notification = %s, want the sentinel snapshot (reply must not fan out)", pkt)
		}
	case <-time.After(waitTimeout):
		t.Fatal("sentinel notification never arrived")
	}
}

func TestDriver_BusyRejection(t *testing.T) {
	d, c, _ := newTestDriver(t)

	firstErr := make(chan error, 1)
	go func() {
		_, err := d.Request(context.Background(), protocol.BuildMute(7, true))
		firstErr <- err
	}()

	// The first command is on the wire and pending.
	cmd, err := c.recv()
	if err != nil {
		t.Fatal(err)
	}
	if cmd.Kind() != protocol.KindChannelMute {
		t.Fatalf("console received %s, want ChannelMute", cmd)
	}

	// A second request for the same key is rejected without writing.
	_, err = d.Request(context.Background(), protocol.BuildMute(7, false))
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("duplicate Request() error = %v, want ErrBusy", err)
	}

	// Echo releases the first request.
	if err := c.send(cmd.Payload, false); err != nil {
		t.Fatal(err)
	}
	if err := <-firstErr; err != nil {
		t.Fatalf("first Request() error = %v", err)
	}

	// The busy rejection must not have produced a frame.
	select {
	case extra := <-c.in:
		t.Fatalf("console received unexpected frame %s after busy rejection", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDriver_ConcurrentRequestsRouteByKey(t *testing.T) {
	d, c, _ := newTestDriver(t)

	type result struct {
		pkt *protocol.Packet
		err error
	}
	res1 := make(chan result, 1)
	res2 := make(chan result, 1)

	go func() {
		pkt, err := d.Request(context.Background(), protocol.BuildMute(1, true))
		res1 <- result{pkt, err}
	}()
	go func() {
		pkt, err := d.Request(context.Background(), protocol.BuildMute(2, true))
		res2 <- result{pkt, err}
	}()

	first, err := c.recv()
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.recv()
	if err != nil {
		t.Fatal(err)
	}

	// Echo in reverse arrival order; each reply must still find its
	// own request.
	if err := c.send(second.Payload, false); err != nil {
		t.Fatal(err)
	}
	if err := c.send(first.Payload, false); err != nil {
		t.Fatal(err)
	}

	r1 := <-res1
	r2 := <-res2
	if r1.err != nil || r2.err != nil {
		t.Fatalf("Request() errors = %v, %v", r1.err, r2.err)
	}
	if ch, _ := r1.pkt.Int("channel"); ch != 1 {
		t.Errorf("first request got reply for channel %d, want 1", ch)
	}
	if ch, _ := r2.pkt.Int("channel"); ch != 2 {
		t.Errorf("second request got reply for channel %d, want 2", ch)
	}
}

func TestDriver_NotificationOrdering(t *testing.T) {
	d, c, _ := newTestDriver(t)

	notifs, cancel := d.Listen()
	defer cancel()

	// Alternate compression to exercise both codec paths in sequence.
	for i := 0; i < 20; i++ {
		payload := map[string]any{"param": "test/seq", "value": float64(i)}
		if err := c.send(payload, i%2 == 1); err != nil {
			t.Fatal(err)
		}
	}

	for i := 0; i < 20; i++ {
		select {
		case pkt := <-notifs:
			if v, _ := pkt.Float("value"); int(v) != i {
				t.Fatalf("notification %d carried value %g, want %d (ordering broken)", i, v, i)
			}
		case <-time.After(waitTimeout):
			t.Fatalf("notification %d never arrived", i)
		}
	}
}

func TestDriver_FirstMatchWins(t *testing.T) {
	d, c, _ := newTestDriver(t)

	notifs, cancel := d.Listen()
	defer cancel()

	// Echo the command twice: one fulfills, one must downgrade to a
	// notification.
	go func() {
		pkt, err := c.recv()
		if err != nil {
			return
		}
		_ = c.send(pkt.Payload, false)
		_ = c.send(pkt.Payload, false)
	}()

	if _, err := d.Request(context.Background(), protocol.BuildMute(2, true)); err != nil {
		t.Fatalf("Request() error = %v", err)
	}

	select {
	case pkt := <-notifs:
		if pkt.Kind() != protocol.KindChannelMute {
			t.Errorf("second echo fanned out as %s, want ChannelMute", pkt)
		}
	case <-time.After(waitTimeout):
		t.Fatal("second echo never reached subscribers")
	}
}

func TestDriver_Subscribe(t *testing.T) {
	d, c, _ := newTestDriver(t, WithMeterPort(52703), WithClientName("Test Desk"))

	notifs, cancel := d.Listen()
	defer cancel()

	got := make(chan *protocol.Packet, 2)
	go func() {
		for i := 0; i < 2; i++ {
			pkt, err := c.recv()
			if err != nil {
				return
			}
			got <- pkt
		}
		// A push arriving before the ack must not disturb the
		// subscribe expectation.
		_ = c.send(map[string]any{"id": "StateSnapshot", "state": map[string]any{"global/mixerBypass": float64(0)}}, true)
		_ = c.send(map[string]any{"id": "SubscriptionReply"}, false)
	}()

	if err := d.Subscribe(context.Background()); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if d.State() != StateSubscribed {
		t.Errorf("State() = %v, want StateSubscribed", d.State())
	}

	hello := <-got
	if hello.Kind() != protocol.KindHello {
		t.Fatalf("first frame = %s, want Hello", hello)
	}
	if port, _ := hello.Int("meterPort"); port != 52703 {
		t.Errorf("hello meterPort = %d, want 52703", port)
	}

	sub := <-got
	if sub.Kind() != protocol.KindSubscribe {
		t.Fatalf("second frame = %s, want Subscribe", sub)
	}
	if name, _ := sub.Str("clientName"); name != "Test Desk" {
		t.Errorf("clientName = %q, want %q", name, "Test Desk")
	}

	// The pre-ack push went to subscribers.
	select {
	case pkt := <-notifs:
		if pkt.Kind() != protocol.KindStateSnapshot {
			t.Errorf("notification = %s, want StateSnapshot", pkt)
		}
	case <-time.After(waitTimeout):
		t.Fatal("pre-ack push never reached subscribers")
	}
}

func TestDriver_CloseUnblocksRequest(t *testing.T) {
	d, c, runErr := newTestDriver(t)

	reqErr := make(chan error, 1)
	go func() {
		_, err := d.Request(context.Background(), protocol.BuildMute(9, true))
		reqErr <- err
	}()

	// Wait until the request is pending, then close under it.
	if _, err := c.recv(); err != nil {
		t.Fatal(err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if err := <-reqErr; !errors.Is(err, ErrClosed) {
		t.Errorf("pending Request() error = %v, want ErrClosed", err)
	}
	if err := <-runErr; err != nil {
		t.Errorf("Run() error = %v, want nil after deliberate close", err)
	}
	if d.State() != StateClosed {
		t.Errorf("State() = %v, want StateClosed", d.State())
	}

	// Close is idempotent; later operations fail with ErrClosed.
	if err := d.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := d.Send(context.Background(), protocol.BuildKeepAlive()); !errors.Is(err, ErrClosed) {
		t.Errorf("Send() after close error = %v, want ErrClosed", err)
	}
	if _, err := d.Request(context.Background(), protocol.BuildMute(1, true)); !errors.Is(err, ErrClosed) {
		t.Errorf("Request() after close error = %v, want ErrClosed", err)
	}
}

func TestDriver_CloseClosesSubscribers(t *testing.T) {
	d, _, _ := newTestDriver(t)

	notifs, cancel := d.Listen()

	if err := d.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	select {
	case _, ok := <-notifs:
		if ok {
			t.Error("subscriber channel delivered a packet after close, want closed")
		}
	case <-time.After(waitTimeout):
		t.Fatal("subscriber channel not closed")
	}

	// Cancel after the channel is already gone is a no-op.
	cancel()
	cancel()

	// Listen on a closed driver hands back a closed channel.
	late, lateCancel := d.Listen()
	defer lateCancel()
	if _, ok := <-late; ok {
		t.Error("Listen() after close delivered a packet, want closed channel")
	}
}

func TestDriver_FramingErrorIsFatal(t *testing.T) {
	d, c, runErr := newTestDriver(t)

	reqErr := make(chan error, 1)
	go func() {
		_, err := d.Request(context.Background(), protocol.BuildMute(3, true))
		reqErr <- err
	}()
	if _, err := c.recv(); err != nil {
		t.Fatal(err)
	}

	// Reserved flag bit: the stream can no longer be trusted.
	frame, err := protocol.Encode([]byte(`{"id":"KeepAlive"}`), false)
	if err != nil {
		t.Fatal(err)
	}
	frame[4] |= 0x40
	if _, err := c.conn.Write(frame); err != nil {
		t.Fatal(err)
	}

	var framingErr *protocol.FramingError
	if err := <-runErr; !errors.As(err, &framingErr) {
		t.Errorf("Run() error = %v, want FramingError", err)
	}
	if err := <-reqErr; !errors.As(err, &framingErr) {
		t.Errorf("pending Request() error = %v, want the FramingError", err)
	}
	if d.State() != StateClosed {
		t.Errorf("State() = %v, want StateClosed", d.State())
	}
}

func TestDriver_DecodeErrorIsFatal(t *testing.T) {
	d, c, runErr := newTestDriver(t)

	frame, err := protocol.Encode([]byte("this is not json"), false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.conn.Write(frame); err != nil {
		t.Fatal(err)
	}

	var decodeErr *protocol.DecodeError
	if err := <-runErr; !errors.As(err, &decodeErr) {
		t.Errorf("Run() error = %v, want DecodeError", err)
	}
	if d.State() != StateClosed {
		t.Errorf("State() = %v, want StateClosed", d.State())
	}
}

func TestDriver_RequestContextCancel(t *testing.T) {
	d, c, _ := newTestDriver(t)

	notifs, cancelListen := d.Listen()
	defer cancelListen()

	ctx, cancel := context.WithCancel(context.Background())
	reqErr := make(chan error, 1)
	go func() {
		_, err := d.Request(ctx, protocol.BuildMute(5, true))
		reqErr <- err
	}()

	cmd, err := c.recv()
	if err != nil {
		t.Fatal(err)
	}
	cancel()

	if err := <-reqErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("Request() error = %v, want context.Canceled", err)
	}

	// The abandoned expectation is gone: a late echo is a plain
	// notification now.
	if err := c.send(cmd.Payload, false); err != nil {
		t.Fatal(err)
	}
	select {
	case pkt := <-notifs:
		if pkt.Kind() != protocol.KindChannelMute {
			t.Errorf("late reply fanned out as %s, want ChannelMute", pkt)
		}
	case <-time.After(waitTimeout):
		t.Fatal("late reply never reached subscribers")
	}
}

func TestDriver_RequestWithoutReplySignal(t *testing.T) {
	d, c, _ := newTestDriver(t)

	_, err := d.Request(context.Background(), protocol.BuildKeepAlive())
	if err == nil {
		t.Fatal("Request(KeepAlive) succeeded, want error: payload has no reply signal")
	}
	if errors.Is(err, ErrBusy) || errors.Is(err, ErrClosed) {
		t.Errorf("Request(KeepAlive) error = %v, want a distinct no-reply-signal error", err)
	}

	// Nothing may have been written.
	select {
	case pkt := <-c.in:
		t.Fatalf("console received %s, want nothing", pkt)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDriver_KeepAlive(t *testing.T) {
	_, c, _ := newTestDriver(t, WithKeepAlive(20*time.Millisecond))

	pkt, err := c.recv()
	if err != nil {
		t.Fatal(err)
	}
	if pkt.Kind() != protocol.KindKeepAlive {
		t.Errorf("heartbeat frame = %s, want KeepAlive", pkt)
	}
}

func TestDriver_SlowSubscriberDropsNotOrderBreaks(t *testing.T) {
	d, c, _ := newTestDriver(t, WithListenBuffer(1))

	notifs, cancel := d.Listen()
	defer cancel()

	// Three notifications against a one-slot buffer; nothing drains yet.
	for i := 0; i < 3; i++ {
		if err := c.send(map[string]any{"param": "test/seq", "value": float64(i)}, false); err != nil {
			t.Fatal(err)
		}
	}

	// A request round-trip proves the read loop has processed all three.
	go func() {
		pkt, err := c.recv()
		if err != nil {
			return
		}
		_ = c.send(pkt.Payload, false)
	}()
	if _, err := d.Request(context.Background(), protocol.BuildMute(1, true)); err != nil {
		t.Fatalf("Request() error = %v", err)
	}

	// Only the first notification fit; the rest were dropped, never
	// reordered or delayed.
	select {
	case pkt := <-notifs:
		if v, _ := pkt.Float("value"); v != 0 {
			t.Errorf("buffered notification value = %g, want 0", v)
		}
	case <-time.After(waitTimeout):
		t.Fatal("buffered notification missing")
	}
	select {
	case pkt := <-notifs:
		t.Fatalf("unexpected extra notification %s, want drop", pkt)
	default:
	}
}

func TestDriver_SplitFrameDelivery(t *testing.T) {
	d, c, _ := newTestDriver(t)

	notifs, cancel := d.Listen()
	defer cancel()

	frame, err := protocol.EncodePayload(map[string]any{"param": "global/mixerBypass", "value": 1.0}, false)
	if err != nil {
		t.Fatal(err)
	}

	// Worst-case fragmentation: one byte per segment.
	for i := range frame {
		if _, err := c.conn.Write(frame[i : i+1]); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case pkt := <-notifs:
		if pkt.Kind() != protocol.KindParamValue {
			t.Errorf("reassembled packet = %s, want ParamValue", pkt)
		}
	case <-time.After(waitTimeout):
		t.Fatal("fragmented frame never decoded")
	}
}

func TestDriver_InitialState(t *testing.T) {
	d, _, _ := newTestDriver(t)

	if d.State() != StateConnected {
		t.Errorf("State() = %v, want StateConnected", d.State())
	}
}

func TestWithDefaultPort(t *testing.T) {
	tests := []struct {
		name string
		addr string
		want string
	}{
		{name: "bare host gets default port", addr: "192.168.1.50", want: "192.168.1.50:53000"},
		{name: "explicit port kept", addr: "192.168.1.50:49162", want: "192.168.1.50:49162"},
		{name: "hostname gets default port", addr: "console.local", want: "console.local:53000"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := withDefaultPort(tc.addr); got != tc.want {
				t.Errorf("withDefaultPort(%q) = %q, want %q", tc.addr, got, tc.want)
			}
		})
	}
}
