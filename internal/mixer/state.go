package mixer

import (
	"sync"

	"github.com/feathernet/ucremote/internal/protocol"
)

// State is the client-side image of the console's parameter tree,
// assembled from snapshot pushes and change notifications. All methods
// are safe for concurrent use.
type State struct {
	mu     sync.RWMutex
	params map[string]float64
}

func NewState() *State {
	return &State{params: make(map[string]float64)}
}

// Apply folds one incoming packet into the view. Packets that carry no
// parameter state are ignored.
func (s *State) Apply(pkt *protocol.Packet) {
	switch pkt.Kind() {
	case protocol.KindStateSnapshot:
		state, ok := pkt.Object("state")
		if !ok {
			return
		}
		s.mu.Lock()
		for name, raw := range state {
			if v, ok := toFloat(raw); ok {
				s.params[name] = v
			}
		}
		s.mu.Unlock()

	case protocol.KindParamValue:
		name, _ := pkt.Str("param")
		value, ok := pkt.Float("value")
		if !ok {
			return
		}
		s.mu.Lock()
		s.params[name] = value
		s.mu.Unlock()

	case protocol.KindChannelMute:
		channel, _ := pkt.Int("channel")
		mute, ok := pkt.Bool("mute")
		if !ok {
			return
		}
		v := 0.0
		if mute {
			v = 1.0
		}
		s.mu.Lock()
		s.params[ParamMute(channel)] = v
		s.mu.Unlock()
	}
}

// Param returns the raw value of a parameter. The second return is
// false until the parameter has been heard about.
func (s *State) Param(name string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.params[name]
	return v, ok
}

// ChannelMuted reports whether a channel's mute is engaged.
func (s *State) ChannelMuted(channel int) (bool, bool) {
	v, ok := s.Param(ParamMute(channel))
	return v >= 0.5, ok
}

// MixerBypass reports the global processing bypass switch.
func (s *State) MixerBypass() (bool, bool) {
	v, ok := s.Param(ParamMixerBypass)
	return v >= 0.5, ok
}

// Snapshot returns a copy of every known parameter.
func (s *State) Snapshot() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]float64, len(s.params))
	for name, v := range s.params {
		out[name] = v
	}
	return out
}

// Switch-style parameters arrive as numbers, snapshot entries
// occasionally as JSON booleans.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
