// Package config provides user configuration management for UC Remote.
//
// This package manages a YAML-based configuration file that stores
// user-defined metadata for mixer consoles, including nicknames, channel
// labels, and application preferences. The configuration follows
// OS-specific conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/ucremote/config.yaml or $HOME/.config/ucremote/config.yaml
//   - macOS: $HOME/.config/ucremote/config.yaml
//   - Windows: %LOCALAPPDATA%\ucremote\config.yaml
//
// # What Belongs Here
//
// Only client-side conveniences. Console identity (name, model, serial)
// and mix state always come from the device over the control protocol;
// nothing in this file is pushed back to the console.
//
// # Usage Example
//
//	// Load the global registry
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Label the drum channels on the FOH console
//	registry.SetDeviceNickname("SL987654", "FOH")
//	registry.SetChannelLabel("SL987654", 1, "Kick")
//	registry.SetChannelLabel("SL987654", 2, "Snare")
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
