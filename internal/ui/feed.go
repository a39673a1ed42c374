package ui

import (
	"fmt"
	"time"

	"github.com/feathernet/ucremote/internal/protocol"
)

// Frame directions as shown in the monitor feed.
const (
	DirectionSend = "send"
	DirectionRecv = "recv"
)

// FormatFrameLine renders one monitor line: timestamp, direction
// arrow, packet summary, and payload size in bytes.
//
//	15:04:05.000 ← ParamValue{line/ch3/volume=0.42} [58B]
func FormatFrameLine(at time.Time, direction string, pkt *protocol.Packet, size int) string {
	arrow := FeedRecvStyle.Render("←")
	if direction == DirectionSend {
		arrow = FeedSendStyle.Render("→")
	}

	sizeTag := fmt.Sprintf("[%dB]", size)
	if pkt.Compressed {
		sizeTag = fmt.Sprintf("[%dB deflate]", size)
	}

	return fmt.Sprintf("%s %s %s %s",
		FeedTimeStyle.Render(at.Format("15:04:05.000")),
		arrow,
		protocol.Describe(pkt),
		StepNoteStyle.Render(sizeTag))
}
