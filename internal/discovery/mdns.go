package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/feathernet/ucremote/internal/driver"
)

const (
	// ServiceType is the mDNS service type consoles advertise
	ServiceType = "_ucnet._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."
)

// ScanMDNS browses multicast DNS for consoles. Recent firmware
// advertises _ucnet._tcp alongside the UDP broadcast; older units
// never show up here, so treat this as a secondary source.
func (s *Scanner) ScanMDNS(ctx context.Context) ([]*Device, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	devices := make([]*Device, 0)
	done := make(chan struct{})

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	// Collect entries as they arrive; the resolver closes the channel
	// when the context ends.
	go func() {
		defer close(done)
		for entry := range entries {
			if device := parseServiceEntry(entry); device != nil {
				devices = append(devices, device)
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	<-done

	// The same console can answer a query more than once.
	return Merge(nil, devices), nil
}

// parseServiceEntry converts a zeroconf service entry to a Device.
// Returns nil when the entry lacks a serial TXT record or an address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Device {
	txt := parseTXT(entry.Text)

	serial := txt["serial"]
	if serial == "" {
		return nil
	}

	// Prefer IPv4; consoles rarely publish more than one address.
	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = driver.DefaultControlPort
	}

	name := txt["name"]
	if name == "" {
		name = entry.Instance
	}

	return &Device{
		Name:     name,
		Model:    txt["model"],
		Serial:   serial,
		IP:       ip,
		Port:     port,
		Source:   SourceMDNS,
		LastSeen: time.Now(),
	}
}

// parseTXT splits "key=value" records; a bare key maps to ""
func parseTXT(records []string) map[string]string {
	txt := make(map[string]string, len(records))
	for _, record := range records {
		parts := strings.SplitN(record, "=", 2)
		if len(parts) == 2 {
			txt[parts[0]] = parts[1]
		} else {
			txt[parts[0]] = ""
		}
	}
	return txt
}
