// Package tui implements the terminal dashboard for a connected console.
//
// This package provides a live, full-screen view of a mixing console.
// Built using the Bubble Tea framework, it follows the Elm architecture
// with immutable state updates and a clean Model-Update-View pattern.
//
// # Architecture
//
// The dashboard is a single screen with one row per channel:
//   - Channel label, taken from the local registry when one is set
//   - Mute flag, reflecting the console's own notification stream
//   - Level bar, fed by the UDP meter listener when one is attached
//
// State is never updated optimistically. A key press sends the command
// to the console; the row changes only when the console's confirmation
// or broadcast comes back, so the screen always shows what the desk is
// actually doing.
//
// # Framework Components
//
//   - bubbles/key: Declarative key bindings
//   - bubbles/help: Context-aware help footer
//   - lipgloss: Styling and layout
//
// # Usage Example
//
//	drv, err := driver.Dial(ctx, addr)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	go func() { _ = drv.Run(ctx) }()
//	if err := drv.Subscribe(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	model := tui.NewDashboardModel(drv, tui.DashboardConfig{
//	    Device:   "FOH at " + addr,
//	    Channels: 32,
//	})
//	program := tea.NewProgram(model, tea.WithAltScreen())
//	if _, err := program.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Key Bindings
//
//   - up/k, down/j: Select a channel
//   - m: Toggle mute on the selected channel
//   - b: Toggle the global mixer bypass
//   - ?: Expand help
//   - q/esc/ctrl+c: Quit
package tui
