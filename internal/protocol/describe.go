package protocol

import (
	"fmt"
	"sort"
	"strings"
)

// Describe renders a one-line human summary of a packet. Used by the
// monitor command and capture tooling; not meant to round-trip.
func Describe(p *Packet) string {
	switch p.Kind() {
	case KindHello:
		port, _ := p.Int("meterPort")
		return fmt.Sprintf("Hello{meterPort=%d}", port)

	case KindSubscribe:
		name, _ := p.Str("clientName")
		return fmt.Sprintf("Subscribe{clientName=%q}", name)

	case KindSubscriptionReply:
		return "SubscriptionReply{}"

	case KindKeepAlive:
		return "KeepAlive{}"

	case KindChannelMute:
		ch, _ := p.Int("channel")
		mute, _ := p.Bool("mute")
		state := "unmuted"
		if mute {
			state = "muted"
		}
		return fmt.Sprintf("ChannelMute{channel=%d, %s}", ch, state)

	case KindParamValue:
		name, _ := p.Str("param")
		value, _ := p.Float("value")
		return fmt.Sprintf("ParamValue{%s=%g}", name, value)

	case KindStateSnapshot:
		state, _ := p.Object("state")
		return fmt.Sprintf("StateSnapshot{entries=%d, compressed=%v}", len(state), p.Compressed)

	case KindMeterLevels:
		levels, _ := p.Payload["levels"].([]any)
		return fmt.Sprintf("MeterLevels{channels=%d}", len(levels))

	case KindDeviceAnnounce:
		name, _ := p.Str("name")
		model, _ := p.Str("model")
		serial, _ := p.Str("serial")
		port, _ := p.Int("port")
		return fmt.Sprintf("DeviceAnnounce{name=%q, model=%s, serial=%s, port=%d}",
			name, model, serial, port)
	}

	// Unknown shape: list the field names so captures stay greppable.
	keys := make([]string, 0, len(p.Payload))
	for k := range p.Payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("Unknown{fields=[%s]}", strings.Join(keys, " "))
}
