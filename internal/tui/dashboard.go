package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/feathernet/ucremote/internal/driver"
	"github.com/feathernet/ucremote/internal/meter"
	"github.com/feathernet/ucremote/internal/mixer"
	"github.com/feathernet/ucremote/internal/protocol"
)

// Message types for async events
type notificationMsg struct{ pkt *protocol.Packet }
type streamClosedMsg struct{}
type meterMsg struct{ update meter.Update }
type commandResultMsg struct{ err error }

// commandTimeout bounds a mute or bypass request issued from a key press
const commandTimeout = 5 * time.Second

// defaultChannels is how many strips to draw when the caller does not say
const defaultChannels = 16

// dashboardKeyMap defines key bindings for the dashboard screen
type dashboardKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Mute   key.Binding
	Bypass key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k dashboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Mute, k.Bypass, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k dashboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Mute, k.Bypass},
		{k.Help, k.Quit},
	}
}

// DashboardConfig carries everything the dashboard needs beyond the
// live connection itself.
type DashboardConfig struct {
	Device   string          // display name for the header, e.g. "FOH at 192.168.4.15:53000"
	Channels int             // number of strips to draw
	Labels   map[int]string  // channel labels from the local registry
	Meters   *meter.Listener // optional; nil leaves the level bars at zero
}

// DashboardModel is the live console view: one strip per channel with
// mute state and meter level, updated from the console's own
// notification stream rather than local optimism.
type DashboardModel struct {
	Mixer  *mixer.Mixer
	Config DashboardConfig

	// UI state
	Width  int
	Height int
	Cursor int // selected channel, 1-based

	// Live data
	Levels       []float64
	MeterAt      time.Time
	LastErr      error
	StreamClosed bool

	// Help
	Help help.Model
	Keys dashboardKeyMap

	drv      *driver.Driver
	notifs   <-chan *protocol.Packet
	unlisten func()
}

// NewDashboardModel creates a dashboard over an already-subscribed
// driver. The caller keeps running the driver's read loop.
func NewDashboardModel(drv *driver.Driver, cfg DashboardConfig) DashboardModel {
	if cfg.Channels <= 0 {
		cfg.Channels = defaultChannels
	}

	notifs, unlisten := drv.Listen()

	// Initialize key bindings
	keys := dashboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		Bypass: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "bypass"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}

	return DashboardModel{
		Mixer:    mixer.NewMixer(drv),
		Config:   cfg,
		Cursor:   1,
		Help:     help.New(),
		Keys:     keys,
		drv:      drv,
		notifs:   notifs,
		unlisten: unlisten,
	}
}

// Init starts the notification and meter pumps
func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.waitNotification(), m.waitMeter())
}

// waitNotification blocks for the next console notification
func (m DashboardModel) waitNotification() tea.Cmd {
	notifs := m.notifs
	return func() tea.Msg {
		pkt, ok := <-notifs
		if !ok {
			return streamClosedMsg{}
		}
		return notificationMsg{pkt: pkt}
	}
}

// waitMeter blocks for the next meter datagram
func (m DashboardModel) waitMeter() tea.Cmd {
	if m.Config.Meters == nil {
		return nil
	}
	updates := m.Config.Meters.Updates()
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return nil
		}
		return meterMsg{update: update}
	}
}

// Update handles messages and updates the model
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case notificationMsg:
		m.Mixer.State().Apply(msg.pkt)
		return m, m.waitNotification()

	case streamClosedMsg:
		m.StreamClosed = true
		return m, nil

	case meterMsg:
		m.Levels = msg.update.Levels
		m.MeterAt = msg.update.ReceivedAt
		return m, m.waitMeter()

	case commandResultMsg:
		m.LastErr = msg.err
		return m, nil
	}

	return m, nil
}

// handleKey handles keyboard input
func (m DashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.unlisten()
		return m, tea.Quit

	case "up", "k":
		if m.Cursor > 1 {
			m.Cursor--
		}

	case "down", "j":
		if m.Cursor < m.Config.Channels {
			m.Cursor++
		}

	case "m":
		if !m.StreamClosed {
			return m, m.toggleMute()
		}

	case "b":
		if !m.StreamClosed {
			return m, m.toggleBypass()
		}

	case "?":
		m.Help.ShowAll = !m.Help.ShowAll
	}

	return m, nil
}

// toggleMute flips the selected channel's mute through the console and
// reports the outcome as a commandResultMsg.
func (m DashboardModel) toggleMute() tea.Cmd {
	ch := m.Cursor
	muted, _ := m.Mixer.State().ChannelMuted(ch)
	mix := m.Mixer
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		return commandResultMsg{err: mix.MuteChannel(ctx, ch, !muted)}
	}
}

// toggleBypass flips the global mixer bypass switch
func (m DashboardModel) toggleBypass() tea.Cmd {
	on, _ := m.Mixer.State().MixerBypass()
	mix := m.Mixer
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		return commandResultMsg{err: mix.SetMixerBypass(ctx, !on)}
	}
}

// View renders the dashboard
func (m DashboardModel) View() string {
	var b strings.Builder

	b.WriteString(RenderHeader(m.Config.Device))
	b.WriteString("\n")

	if m.StreamClosed {
		b.WriteString(WarningStyle.Render("Connection to the console was lost. Press q to exit."))
		b.WriteString("\n")
	}
	if bypass, ok := m.Mixer.State().MixerBypass(); ok && bypass {
		b.WriteString(WarningStyle.Render("MIXER BYPASS ENGAGED"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	strips := make([]string, 0, m.Config.Channels)
	for ch := 1; ch <= m.Config.Channels; ch++ {
		strips = append(strips, m.renderStrip(ch))
	}
	b.WriteString(BoxStyle.Render(strings.Join(strips, "\n")))
	b.WriteString("\n")

	if m.LastErr != nil {
		b.WriteString(ErrorStyle.Render("✗ " + m.LastErr.Error()))
		b.WriteString("\n")
	}
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render(m.Help.View(m.Keys)))

	return b.String()
}

// renderStrip renders one channel row: label, mute flag, level bar
func (m DashboardModel) renderStrip(ch int) string {
	const labelWidth = 18

	label := fmt.Sprintf("Ch %02d", ch)
	if name, ok := m.Config.Labels[ch]; ok && name != "" {
		label += " " + name
	}
	if len(label) > labelWidth {
		label = label[:labelWidth]
	}
	label = fmt.Sprintf("%-*s", labelWidth, label)

	muted, _ := m.Mixer.State().ChannelMuted(ch)

	level := 0.0
	if ch-1 < len(m.Levels) {
		level = m.Levels[ch-1]
	}

	marker := "  "
	styledLabel := ChannelStyle.Render(label)
	if ch == m.Cursor {
		marker = SelectedChannelStyle.Render("→ ")
		styledLabel = SelectedChannelStyle.Render(label)
	}

	return marker + styledLabel + " " + RenderMuteFlag(muted) + " " + RenderMeterBar(level, MeterBarWidth)
}

// statusLine reports connection state and meter freshness
func (m DashboardModel) statusLine() string {
	meterInfo := "meters: off"
	if m.Config.Meters != nil {
		if m.MeterAt.IsZero() {
			meterInfo = "meters: waiting"
		} else {
			meterInfo = fmt.Sprintf("meters: %dms ago", time.Since(m.MeterAt).Milliseconds())
		}
	}
	return StatusBarStyle.Render(fmt.Sprintf("console: %s | %s", m.drv.State(), meterInfo))
}
