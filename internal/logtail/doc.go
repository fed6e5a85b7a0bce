// Package logtail reads the end of clockctl's own log file for the UI log view.
//
// Read returns the last N lines using a ring buffer, so memory stays
// proportional to N rather than to the file size. Parse and Format turn the
// JSON lines written by internal/logging into one-line summaries:
//
//	{"severity":"warn","time":"...","logger":"stream","message":"stream receive failed","error":"EOF"}
//	2025-10-08 21:01:05 WARN [stream] – stream receive failed error=EOF
//
// Lines that are not JSON (a panic trace, for example) are shown verbatim.
package logtail
