// Package state holds clockctl's last known clock snapshot.
//
// # Overview
//
// Three producers change what the UI shows: patches from the status stream,
// results of the HTTP fallback poll, and the local one second countdown. The
// Store serializes all of them behind one mutex so a tick can never land in
// the middle of a merge, and hands the UI immutable Snapshot copies.
//
//	stream events ──┐
//	HTTP polls ─────┼──▶ Store (merge, normalize) ──▶ Changed() ──▶ UI Snapshot()
//	ticker ─────────┘
//
// # Update Semantics
//
//	store.ApplyPatch(patch)     merge present fields, re-derive countdown
//	store.Update(status, nil)   same as ApplyPatch, used for HTTP fetches
//	store.Update(_, err)        keep data, record err, count a failure
//	store.SetConnection(state)  track the stream; Open clears failures
//
// A patch with no fields never creates or alters the status.
//
// # Countdown Ticker
//
// The Store owns the ticker that keeps the display moving between server
// pushes. It runs only while the snapshot is running, not paused, not between
// rounds, has time left, and the stream is not disconnected. Every mutation
// re-checks those conditions and starts or stops the ticker to match. A tick
// from a ticker that has since been stopped is ignored.
//
// Construct a Store with NewStore and call Close when done so the ticker
// goroutine exits. Tests inject a clock through Options.Now.
//
// # Error Propagation
//
//   - LastError: most recent poll or stream error (nil after a success)
//   - ConsecutiveFailures: failures since the last success
//   - IsOffline: the stream is not open and at least two attempts failed
package state
