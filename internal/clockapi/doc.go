// Package clockapi provides an HTTP client for the clock server API.
//
// # Client Usage
//
//	client, err := clockapi.NewClient("http://127.0.0.1:4040/api", logger)
//	if err != nil {
//		return err
//	}
//
//	status, err := client.FetchStatus(ctx)
//	if err := client.Send(ctx, clockapi.Start); err != nil {
//		...
//	}
//	err = client.SetTime(ctx, 3, 0)
//
// # API Endpoints
//
//	GET  /api/status               {"status": {...}} or a bare status object
//	POST /api/start                (also pause, reset, reset-time, reset-rounds,
//	                                next-round, previous-round)
//	POST /api/set-time             {"minutes": 3, "seconds": 0}
//	POST /api/set-rounds           {"rounds": 12}
//	POST /api/set-between-rounds   {"enabled": true, "time": 60}
//
// Status bodies are decoded with clock.Extract, so field casing and envelope
// shape do not matter and the returned record keeps its presence set for
// merging. Command responses are discarded: the next status push is the only
// acknowledgement. Any HTTP status of 400 or above is an error.
//
// # Timeouts
//
// Every request has a 5 second client timeout on top of the caller's context.
package clockapi
