package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Source values recorded on discovered devices.
const (
	// SourceAnnounce marks devices heard over the UDP presence broadcast
	SourceAnnounce = "announce"

	// SourceMDNS marks devices found by browsing multicast DNS
	SourceMDNS = "mdns"
)

// Device represents a mixer console discovered on the network
type Device struct {
	// Name is the user-assigned console name (e.g., "FOH")
	Name string

	// Model is the hardware model string (e.g., "32SX")
	Model string

	// Serial is the device serial number (e.g., "SL987654")
	Serial string

	// IP is the address the device announced from
	IP string

	// Port is the TCP control port (53000 on most units; newer
	// firmware announces 49162, and the announced value wins)
	Port int

	// Source records which mechanism found the device
	Source string

	// LastSeen is when the most recent announce or mDNS entry arrived
	LastSeen time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	return fmt.Sprintf("%s %s (serial %s) at %s:%d", d.Model, d.Name, d.Serial, d.IP, d.Port)
}

// Addr returns the control endpoint in host:port form, ready to dial
func (d *Device) Addr() string {
	return net.JoinHostPort(d.IP, strconv.Itoa(d.Port))
}

// Merge combines two device lists, deduplicating by serial number and
// keeping whichever record was seen most recently. Order follows first
// appearance.
func Merge(dst, src []*Device) []*Device {
	bySerial := make(map[string]*Device, len(dst)+len(src))
	order := make([]string, 0, len(dst)+len(src))

	for _, list := range [][]*Device{dst, src} {
		for _, d := range list {
			existing, ok := bySerial[d.Serial]
			if !ok {
				bySerial[d.Serial] = d
				order = append(order, d.Serial)
				continue
			}
			if d.LastSeen.After(existing.LastSeen) {
				bySerial[d.Serial] = d
			}
		}
	}

	out := make([]*Device, 0, len(order))
	for _, serial := range order {
		out = append(out, bySerial[serial])
	}
	return out
}
