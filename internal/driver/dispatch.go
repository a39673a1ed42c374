package driver

import (
	"go.uber.org/zap"

	"github.com/feathernet/ucremote/internal/logging"
	"github.com/feathernet/ucremote/internal/protocol"
)

// dispatch routes one decoded packet: a packet whose correlation key
// matches a pending request fulfills it, everything else fans out as a
// notification. First match wins; the fulfilled expectation is removed,
// so a second packet with the same key is treated as a notification.
func (d *Driver) dispatch(pkt *protocol.Packet) {
	if key, ok := pkt.CorrelationKey(); ok {
		d.mu.Lock()
		if ch, exists := d.pending[key]; exists {
			delete(d.pending, key)
			// Buffered and sole sender after the delete, so this can
			// never block while holding the mutex.
			ch <- pkt
			d.mu.Unlock()
			return
		}
		d.mu.Unlock()
	}
	d.notify(pkt)
}

// notify fans a packet out to every subscriber. Deliveries never block
// the read loop: a subscriber with a full buffer misses this packet.
// Packets that are delivered always arrive in wire order.
func (d *Driver) notify(pkt *protocol.Packet) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for id, ch := range d.listeners {
		select {
		case ch <- pkt:
		default:
			logging.Warn("subscriber buffer full, dropping packet",
				zap.Int("subscriber", id),
				zap.String("packet", pkt.String()),
			)
		}
	}
}

// Listen registers a notification subscriber. The returned channel
// closes when the subscription is cancelled or the connection dies;
// the cancel func is idempotent. On an already-closed driver the
// channel comes back closed.
func (d *Driver) Listen() (<-chan *protocol.Packet, func()) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		ch := make(chan *protocol.Packet)
		close(ch)
		return ch, func() {}
	}

	id := d.nextSub
	d.nextSub++
	ch := make(chan *protocol.Packet, d.opts.listenBuffer)
	d.listeners[id] = ch
	d.mu.Unlock()

	cancel := func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if c, ok := d.listeners[id]; ok {
			delete(d.listeners, id)
			close(c)
		}
	}
	return ch, cancel
}
