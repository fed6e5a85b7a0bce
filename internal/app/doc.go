// Package app is the composition root for clockctl's interactive watch mode.
//
// # Overview
//
// Run wires configuration, the HTTP API client, the status stream and the
// shared state.Store together, then hands the store to the terminal UI. The
// goroutines it starts are supervised by an errgroup; quitting the UI
// cancels the rest.
//
//	┌──────────────┐
//	│    Run()     │
//	└──────┬───────┘
//	       ├─────> clockapi.NewClient()  HTTP status + commands
//	       ├─────> state.NewStore()      last known snapshot
//	       ├─────> RunStream()           WebSocket pump (goroutine)
//	       ├─────> RunPoller()           HTTP fallback (goroutine)
//	       └─────> ui.Run()              TUI (goroutine, blocks until quit)
//
// # Stream Supervision
//
// The stream client runs a single receive loop per connection and never
// reconnects by itself. RunStream owns that policy: when a connection drops
// it waits calculateBackoff(failures, reconnect interval) and connects again.
// A connection that reached Open resets the failure count.
//
//	Attempt 1: immediate
//	Drop 1:    2s
//	Drop 2:    4s
//	Drop 3:    8s
//	Drop 4:    16s
//	Drop 5+:   30s (capped)
//
// # Fallback Polling
//
// RunPoller fetches the status once at startup and then every poll interval
// while the stream is not open, so the display stays current when only the
// HTTP API is reachable. Fetch errors are recorded on the store and never
// stop the loop.
//
// Both loops return nil when their context is cancelled. RunStream returns
// an error only when the endpoint itself is invalid.
package app
