package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/feathernet/ucremote/internal/discovery"
)

// RenderDeviceTable renders discovered consoles as an aligned table.
// nicknames maps serial to the user's configured name and may be nil.
func RenderDeviceTable(devices []*discovery.Device, nicknames map[string]string) string {
	var b strings.Builder

	header := fmt.Sprintf("  %-3s %-18s %-8s %-12s %-22s %-9s %s",
		"#", "NAME", "MODEL", "SERIAL", "ADDRESS", "SOURCE", "SEEN")
	b.WriteString(TableHeaderStyle.Render(header))
	b.WriteString("\n")

	for i, d := range devices {
		name := d.Name
		if nick := nicknames[d.Serial]; nick != "" {
			name = nick
		}
		row := fmt.Sprintf("  %-3d %-18s %-8s %-12s %-22s %-9s %s",
			i+1, clip(name, 18), clip(d.Model, 8), clip(d.Serial, 12),
			clip(d.Addr(), 22), d.Source, ago(d.LastSeen))
		b.WriteString(TableRowStyle.Render(row))
		b.WriteString("\n")
	}

	return b.String()
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}

// ago renders a compact "how long since" string for the SEEN column
func ago(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}
