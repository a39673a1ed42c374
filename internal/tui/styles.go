package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/feathernet/ucremote/internal/version"
)

// Application branding constants
const (
	AppName   = "UC REMOTE"
	GitHubURL = "github.com/feathernet/ucremote"
)

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Layout constants
const (
	MinTerminalWidth = 60 // Minimum supported terminal width
	MeterBarWidth    = 24 // Width of a channel's level bar
)

// Color palette
var (
	// Primary colors
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF0000") // Red

	// Neutral colors
	TextColor   = lipgloss.Color("#FFFFFF") // White
	SubtleColor = lipgloss.Color("#626262") // Gray
	BorderColor = lipgloss.Color("#7D56F4") // Purple (same as primary)

	// Meter zone colors
	MeterLowColor  = lipgloss.Color("#43BF6D") // Green, healthy signal
	MeterMidColor  = lipgloss.Color("#FFA500") // Orange, getting hot
	MeterHighColor = lipgloss.Color("#FF0000") // Red, near clipping
)

// Common styles
var (
	// Title style for the dashboard header
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	// Subtitle style for the device line under the title
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	// Help text style
	HelpStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Padding(1, 0)

	// Error message style
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// Warning banner style (connection lost, bypass engaged)
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	// Channel label style (unselected strip)
	ChannelStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// Selected channel strip style
	SelectedChannelStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor).
				Bold(true)

	// Mute flag style
	MutedStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// Unmuted flag style
	LiveStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// Status bar style
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Padding(0, 1)

	// Box style for the strip area
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	meterLowStyle  = lipgloss.NewStyle().Foreground(MeterLowColor)
	meterMidStyle  = lipgloss.NewStyle().Foreground(MeterMidColor)
	meterHighStyle = lipgloss.NewStyle().Foreground(MeterHighColor)
	meterRestStyle = lipgloss.NewStyle().Foreground(SubtleColor)
)

// RenderHeader creates the dashboard header with app name and version
func RenderHeader(device string) string {
	title := TitleStyle.Render(AppName + " v" + AppVersion())
	sub := SubtitleStyle.Render(device)
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", sub)
}

// RenderMeterBar renders a horizontal level bar. level is the linear
// meter value in [0, 1]; anything outside is clamped.
func RenderMeterBar(level float64, width int) string {
	if width <= 0 {
		return ""
	}
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}

	filled := int(level*float64(width) + 0.5)
	if filled > width {
		filled = width
	}

	var b strings.Builder
	for i := 0; i < filled; i++ {
		zone := float64(i) / float64(width)
		switch {
		case zone >= 0.9:
			b.WriteString(meterHighStyle.Render("█"))
		case zone >= 0.7:
			b.WriteString(meterMidStyle.Render("█"))
		default:
			b.WriteString(meterLowStyle.Render("█"))
		}
	}
	if filled < width {
		b.WriteString(meterRestStyle.Render(strings.Repeat("░", width-filled)))
	}
	return b.String()
}

// RenderMuteFlag renders the per-channel mute indicator
func RenderMuteFlag(muted bool) string {
	if muted {
		return MutedStyle.Render("[MUTE]")
	}
	return LiveStyle.Render("[    ]")
}
