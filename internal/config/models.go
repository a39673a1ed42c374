package config

import "time"

// Registry represents the entire user configuration file.
// This stores user-defined metadata for consoles and application preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by console serial number
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device represents user-defined metadata for a single console.
// This is keyed by the console's serial number in the Registry.
type Device struct {
	Nickname string         `yaml:"nickname,omitempty"`  // User-friendly name
	LastIP   string         `yaml:"last_ip,omitempty"`   // Last known IP address
	LastPort int            `yaml:"last_port,omitempty"` // Control port from the last announce
	LastSeen time.Time      `yaml:"last_seen,omitempty"` // Last discovery/connection time
	Channels map[int]string `yaml:"channels,omitempty"`  // Channel labels (keyed by channel number)
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	AutoDiscover    bool   `yaml:"auto_discover"`    // Scan for consoles when no address is given
	DiscoverTimeout int    `yaml:"discover_timeout"` // Discovery timeout in seconds
	ClientName      string `yaml:"client_name"`      // Name shown on the console's client list
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Devices: make(map[string]*Device),
		Preferences: &Preferences{
			AutoDiscover:    true,
			DiscoverTimeout: 8,
			ClientName:      "UC Remote",
		},
	}
}

// GetDevice retrieves device metadata by serial number.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(serial string) *Device {
	return r.Devices[serial]
}

// EnsureDevice ensures a device entry exists in the registry.
// If the device doesn't exist, creates a new entry with default values.
// Returns the device entry (existing or newly created).
func (r *Registry) EnsureDevice(serial string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}

	if device, exists := r.Devices[serial]; exists {
		return device
	}

	// Create new device entry
	device := &Device{
		Channels: make(map[int]string),
	}
	r.Devices[serial] = device
	return device
}

// UpdateDeviceLastSeen records where and when a console was last reachable.
func (r *Registry) UpdateDeviceLastSeen(serial, ip string, port int) {
	device := r.EnsureDevice(serial)
	device.LastSeen = time.Now()
	device.LastIP = ip
	device.LastPort = port
}

// SetChannelLabel sets or updates a channel label for a device.
func (r *Registry) SetChannelLabel(serial string, channel int, label string) {
	device := r.EnsureDevice(serial)

	if device.Channels == nil {
		device.Channels = make(map[int]string)
	}
	device.Channels[channel] = label
}

// ChannelLabel returns the stored label for a channel, or "" when the
// device or channel has none.
func (r *Registry) ChannelLabel(serial string, channel int) string {
	device := r.GetDevice(serial)
	if device == nil {
		return ""
	}
	return device.Channels[channel]
}

// SetDeviceNickname sets a user-friendly nickname for a device.
func (r *Registry) SetDeviceNickname(serial, nickname string) {
	device := r.EnsureDevice(serial)
	device.Nickname = nickname
}
