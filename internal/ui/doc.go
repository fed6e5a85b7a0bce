// Package ui renders clockctl's interactive terminal view with Bubble Tea.
//
// # Views
//
// Two views share a header bar and a footer of key hints:
//
//   - Clock: phase badge, the countdown in block digits, ROUND x of y,
//     ELAPSED, and a status panel with the server, stream state, rest
//     period, NTP offset and API version
//   - Logs: the tail of clockctl's own JSON log, reformatted by logtail
//
// Tab switches between them and h or ? opens the help overlay.
//
// # Data Flow
//
// The model never mutates clock state. It waits on state.Store.Changed and
// re-reads a Snapshot each time; the store's own ticker keeps the countdown
// moving between server pushes. A one second UI tick only expires flash
// messages and refreshes the followed log view.
//
// # Controls
//
// Clock commands go through clockapi.Commander on a tea.Cmd with a short
// timeout. They are disabled while the stream is not open, and a second
// command is ignored until the first completes. The result is shown in the
// footer for a few seconds; the server's next status push is the real
// acknowledgement. "a" pushes the preference defaults with set-time,
// set-rounds and set-between-rounds in that order.
//
// T cycles the theme and saves it to the preferences file.
package ui
