package discovery

import (
	"testing"
	"time"
)

func TestDevice_String(t *testing.T) {
	device := &Device{
		Name:   "FOH",
		Model:  "32SX",
		Serial: "SL987654",
		IP:     "192.168.4.16",
		Port:   53000,
	}

	expected := "32SX FOH (serial SL987654) at 192.168.4.16:53000"
	if device.String() != expected {
		t.Errorf("Device.String() = %v, want %v", device.String(), expected)
	}
}

func TestDevice_Addr(t *testing.T) {
	tests := []struct {
		name     string
		device   *Device
		expected string
	}{
		{
			name: "standard control port",
			device: &Device{
				IP:   "192.168.4.16",
				Port: 53000,
			},
			expected: "192.168.4.16:53000",
		},
		{
			name: "newer firmware port",
			device: &Device{
				IP:   "10.0.0.5",
				Port: 49162,
			},
			expected: "10.0.0.5:49162",
		},
		{
			name: "IPv6 address is bracketed",
			device: &Device{
				IP:   "fe80::1",
				Port: 53000,
			},
			expected: "[fe80::1]:53000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.device.Addr(); got != tt.expected {
				t.Errorf("Device.Addr() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	older := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	newer := older.Add(time.Minute)

	tests := []struct {
		name string
		dst  []*Device
		src  []*Device
		want []string // serial, expected source per slot
	}{
		{
			name: "disjoint lists concatenate",
			dst:  []*Device{{Serial: "A", Source: SourceAnnounce}},
			src:  []*Device{{Serial: "B", Source: SourceMDNS}},
			want: []string{"A/announce", "B/mdns"},
		},
		{
			name: "newer record wins",
			dst:  []*Device{{Serial: "A", Source: SourceAnnounce, LastSeen: older}},
			src:  []*Device{{Serial: "A", Source: SourceMDNS, LastSeen: newer}},
			want: []string{"A/mdns"},
		},
		{
			name: "older record does not displace",
			dst:  []*Device{{Serial: "A", Source: SourceAnnounce, LastSeen: newer}},
			src:  []*Device{{Serial: "A", Source: SourceMDNS, LastSeen: older}},
			want: []string{"A/announce"},
		},
		{
			name: "nil dst",
			dst:  nil,
			src:  []*Device{{Serial: "C", Source: SourceMDNS}},
			want: []string{"C/mdns"},
		},
		{
			name: "first appearance keeps its slot",
			dst:  []*Device{{Serial: "A", LastSeen: older, Source: SourceAnnounce}, {Serial: "B", Source: SourceAnnounce}},
			src:  []*Device{{Serial: "A", LastSeen: newer, Source: SourceMDNS}},
			want: []string{"A/mdns", "B/announce"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.dst, tt.src)
			if len(got) != len(tt.want) {
				t.Fatalf("Merge() returned %d devices, want %d", len(got), len(tt.want))
			}
			for i, d := range got {
				id := d.Serial + "/" + d.Source
				if id != tt.want[i] {
					t.Errorf("Merge()[%d] = %s, want %s", i, id, tt.want[i])
				}
			}
		})
	}
}
