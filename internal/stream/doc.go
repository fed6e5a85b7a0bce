// Package stream maintains the WebSocket status stream from the clock server.
//
// A Client holds at most one connection. Connect starts a background receive
// loop and returns immediately; the loop reports Connecting, Open and finally
// Disconnected as EventState values, and every frame that contains a status
// record as an EventPatch carrying the decoded, unmerged clock.Status. Frames
// that do not decode are logged at debug level and dropped.
//
// All events share one unbuffered channel, so the consumer sees them in the
// order frames arrived and never handles two at once. A transport error ends
// the loop; reconnecting is the caller's decision (see internal/app).
//
// Disconnect may be called from any goroutine, including the one reading
// Events. After it returns no further event from the old connection is
// delivered.
package stream
