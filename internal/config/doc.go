// Package config loads clockctl's connection and logging settings.
//
// # Resolution Order
//
// Each setting is resolved from, lowest to highest precedence:
//
//  1. Built-in defaults
//  2. ~/.config/clockctl/config.toml, or the file passed to Load
//  3. CLOCKCTL_* environment variables
//  4. Command-line flags (applied by cmd/clockctl after Load)
//
// A missing config file is not an error. Empty or non-positive values in the
// file leave the default in place.
//
// # Default Values
//
//   - host: 127.0.0.1
//   - port: 4040
//   - api_path: /api (commands go to http://host:port/api/<command>)
//   - stream_path: / (the status stream is ws://host:port/)
//   - poll_interval_seconds: 5 (HTTP fallback while the stream is down)
//   - reconnect_seconds: 2 (base delay before reconnecting the stream)
//   - log_file: ~/.local/state/clockctl/clockctl.log
//   - log_level: info
//
// # TOML Format
//
//	host = "192.168.1.20"
//	port = 4040
//	poll_interval_seconds = 5
//	log_level = "debug"
//
// # Environment
//
//	CLOCKCTL_HOST, CLOCKCTL_PORT, CLOCKCTL_LOG_LEVEL, CLOCKCTL_LOG_FILE
//
// Paths beginning with ~ are expanded against the user's home directory and
// made absolute.
package config
