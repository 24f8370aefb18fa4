// Package config provides server configuration for respkv.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default configuration values
//   - verify.go: validation of addresses, sizes and log settings
//
// Configuration is loaded via internal/infra/confloader from a YAML file,
// RESPKV_* environment variables and command-line flags.
package config
