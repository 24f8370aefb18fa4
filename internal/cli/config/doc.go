// Package config provides respkv-cli configuration.
//
// The file lives at ~/.respkv/cli.yaml:
//
//	default_server: 127.0.0.1:6379
//	default_output: raw
//	timeout: 5s
//	history_file: ~/.respkv/history
//
// Values are overridden by RESPKV_* environment variables and then by
// command-line flags (see Merge).
package config
