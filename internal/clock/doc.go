// Package clock reconciles the status of a remote interval timer.
//
// # Overview
//
// The timer server pushes status over two transports, an HTTP status
// endpoint and a WebSocket stream, and neither has a stable wire shape. This
// package turns whatever arrives into a Status, folds sparse updates into a
// running snapshot, and re-derives the remaining countdown from the server's
// deadline so the display can tick every second between pushes.
//
// Everything here is a pure function of its inputs. The snapshot itself is
// owned by internal/state.
//
// # Pipeline
//
//	raw bytes ──▶ Extract ──▶ patch ──▶ Merge(base, patch) ──▶ Normalize(now) ──▶ snapshot
//
// # Payload Shapes
//
// Extract tries these in order and stops at the first match:
//
//	{"status": {...}}                       envelope
//	{"type": "status", "data": {...}}       message (data, payload or status)
//	{"minutes": 2, "seconds": 10}           flat record
//	{"result": [{"clock": {...}}]}          anything else, searched depth first
//
// Keys match case-insensitively with underscores ignored, so "is_running",
// "isRunning" and "IsRunning" are the same field. A value of the wrong JSON
// type leaves that field absent. Only bytes that are not JSON at all
// (ErrMalformedPayload) or JSON without any status shape (ErrStatusNotFound)
// fail. {"status": {}} is a valid update that changes nothing.
//
// # Presence
//
// A decoded Status records which fields the payload carried. Merge copies
// exactly those fields and nothing else:
//
//	base:  {minutes: 2, seconds: 10, currentRound: 3}
//	patch: {seconds: 45}
//	merge: {minutes: 2, seconds: 45, currentRound: 3}
//
// A Status built in code has no presence information. Merging one with any
// non-zero value replaces the base outright.
//
// # Extrapolation
//
// Normalize only touches records that are running, not paused and not
// between rounds, and whose endTime parses. Deadlines may be epoch seconds,
// epoch milliseconds (magnitude above 1e10), RFC 3339, or a zone-less
// "2006-01-02 15:04:05" style date read first as UTC and then as local time.
// When timeStamp and serverTime disagree by more than a second the
// difference is added to the deadline. A non-zero ntpOffset shifts the local
// clock when NTP sync is on. The result is floored to whole seconds and never
// negative.
package clock
