package mixer

import "fmt"

// Parameter addresses are slash-separated paths into the console's
// parameter tree. Channel strips live under line/ch<N>; the names
// below were observed in session captures against a 32SX desk.
const ParamMixerBypass = "global/mixerBypass"

// ParamMute returns the address of a channel's mute control.
func ParamMute(channel int) string {
	return fmt.Sprintf("line/ch%d/mute", channel)
}

// ParamVolume returns the address of a channel's fader level.
func ParamVolume(channel int) string {
	return fmt.Sprintf("line/ch%d/volume", channel)
}
