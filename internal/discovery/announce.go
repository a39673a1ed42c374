package discovery

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/feathernet/ucremote/internal/driver"
	"github.com/feathernet/ucremote/internal/logging"
	"github.com/feathernet/ucremote/internal/protocol"
)

const (
	// AnnouncePort is the UDP port consoles broadcast presence on
	AnnouncePort = 47809

	// AnnounceInterval is how often a powered-on console repeats its
	// broadcast
	AnnounceInterval = 3 * time.Second

	// DefaultScanTimeout covers at least two announce cycles
	DefaultScanTimeout = 8 * time.Second
)

// Scanner discovers consoles, primarily by listening for their UDP
// presence broadcasts
type Scanner struct {
	// Timeout is the maximum time to wait for broadcasts
	Timeout time.Duration
}

// NewScanner creates a scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan binds the announce port and collects broadcasts until the scan
// window closes. Every powered-on console on the segment shows up
// within one announce interval.
func (s *Scanner) Scan(ctx context.Context) ([]*Device, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: AnnouncePort})
	if err != nil {
		return nil, fmt.Errorf("failed to bind announce port %d: %w", AnnouncePort, err)
	}
	defer conn.Close()

	return s.collect(ctx, conn), nil
}

// collect reads announce datagrams from conn until the window closes,
// deduplicating by serial and keeping the newest record per console.
func (s *Scanner) collect(ctx context.Context, conn *net.UDPConn) []*Device {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	seen := make(map[string]*Device)
	order := make([]string, 0, 4)
	buf := make([]byte, 65535)

	for {
		n, raddr, err := conn.ReadFromUDP(buf)
		if err != nil {
			break
		}

		device := parseAnnounce(buf[:n], raddr)
		if device == nil {
			continue
		}
		logging.Debug("Received console announce",
			zap.String("serial", device.Serial),
			zap.String("addr", device.Addr()))

		if _, ok := seen[device.Serial]; !ok {
			order = append(order, device.Serial)
		}
		seen[device.Serial] = device
	}

	devices := make([]*Device, 0, len(order))
	for _, serial := range order {
		devices = append(devices, seen[serial])
	}
	return devices
}

// ScanAll runs the broadcast scan and the mDNS browse concurrently
// with the same timeout and merges the results. A zero timeout uses
// the default. Either mechanism alone is enough to produce results.
func ScanAll(ctx context.Context, timeout time.Duration) ([]*Device, error) {
	scanner := NewScanner()
	if timeout > 0 {
		scanner.Timeout = timeout
	}

	mdnsCh := make(chan []*Device, 1)
	go func() {
		mdns, err := scanner.ScanMDNS(ctx)
		if err != nil {
			logging.Warn("mDNS browse failed", zap.Error(err))
		}
		mdnsCh <- mdns
	}()

	devices, scanErr := scanner.Scan(ctx)
	mdns := <-mdnsCh
	if scanErr != nil {
		if len(mdns) == 0 {
			return nil, scanErr
		}
		logging.Warn("Announce scan failed, using mDNS results only", zap.Error(scanErr))
	}
	return Merge(devices, mdns), nil
}

// parseAnnounce decodes one broadcast datagram. Returns nil for
// anything that is not a well-formed DeviceAnnounce frame with a
// serial number.
func parseAnnounce(datagram []byte, raddr *net.UDPAddr) *Device {
	pkt, _, err := protocol.Decode(datagram)
	if err != nil || pkt == nil {
		return nil
	}
	if pkt.Kind() != protocol.KindDeviceAnnounce {
		return nil
	}

	serial, ok := pkt.Str("serial")
	if !ok || serial == "" {
		return nil
	}

	name, _ := pkt.Str("name")
	model, _ := pkt.Str("model")
	port, ok := pkt.Int("port")
	if !ok || port <= 0 {
		port = driver.DefaultControlPort
	}

	return &Device{
		Name:     name,
		Model:    model,
		Serial:   serial,
		IP:       raddr.IP.String(),
		Port:     port,
		Source:   SourceAnnounce,
		LastSeen: time.Now(),
	}
}
