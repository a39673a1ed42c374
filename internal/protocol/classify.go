package protocol

import "fmt"

// Control message ids observed in captures. Mute and parameter payloads
// carry no id at all; they are recognized by field shape instead.
const (
	IDHello             = "Hello"
	IDSubscribe         = "Subscribe"
	IDSubscriptionReply = "SubscriptionReply"
	IDKeepAlive         = "KeepAlive"
	IDStateSnapshot     = "StateSnapshot"
	IDMeterLevels       = "MeterLevels"
	IDDeviceAnnounce    = "DeviceAnnounce"
)

// KeySubscribe is the correlation key shared by Subscribe and its
// SubscriptionReply ack.
const KeySubscribe = "subscribe"

// Kind classifies a payload by shape.
type Kind int

const (
	KindUnknown Kind = iota
	KindHello
	KindSubscribe
	KindSubscriptionReply
	KindKeepAlive
	KindChannelMute
	KindParamValue
	KindStateSnapshot
	KindMeterLevels
	KindDeviceAnnounce
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindHello:
		return "Hello"
	case KindSubscribe:
		return "Subscribe"
	case KindSubscriptionReply:
		return "SubscriptionReply"
	case KindKeepAlive:
		return "KeepAlive"
	case KindChannelMute:
		return "ChannelMute"
	case KindParamValue:
		return "ParamValue"
	case KindStateSnapshot:
		return "StateSnapshot"
	case KindMeterLevels:
		return "MeterLevels"
	case KindDeviceAnnounce:
		return "DeviceAnnounce"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Kind classifies the packet payload. Id-carrying control messages are
// matched by id; mute and parameter payloads by their field shape.
func (p *Packet) Kind() Kind {
	switch p.ID() {
	case IDHello:
		return KindHello
	case IDSubscribe:
		return KindSubscribe
	case IDSubscriptionReply:
		return KindSubscriptionReply
	case IDKeepAlive:
		return KindKeepAlive
	case IDStateSnapshot:
		return KindStateSnapshot
	case IDMeterLevels:
		return KindMeterLevels
	case IDDeviceAnnounce:
		return KindDeviceAnnounce
	}

	if _, ok := p.Int("channel"); ok {
		if _, ok := p.Bool("mute"); ok {
			return KindChannelMute
		}
	}
	if _, ok := p.Str("param"); ok {
		if _, ok := p.Float("value"); ok {
			return KindParamValue
		}
	}
	return KindUnknown
}

// CorrelationKey derives the signal that pairs a command with its reply.
//
// The console echoes mute and parameter commands back verbatim and
// answers Subscribe with SubscriptionReply, so a command and its ack
// always map to the same key:
//
//	{"channel": 3, "mute": true}    -> "channel/3/mute"
//	{"param": "n", "value": 1.0}    -> "param/n"
//	Subscribe / SubscriptionReply   -> "subscribe"
//
// Payloads with no derivable key (ok=false) cannot be correlated and
// are delivered as unsolicited notifications.
func (p *Packet) CorrelationKey() (string, bool) {
	switch p.Kind() {
	case KindSubscribe, KindSubscriptionReply:
		return KeySubscribe, true
	case KindChannelMute:
		ch, _ := p.Int("channel")
		return fmt.Sprintf("channel/%d/mute", ch), true
	case KindParamValue:
		name, _ := p.Str("param")
		return "param/" + name, true
	}
	return "", false
}
