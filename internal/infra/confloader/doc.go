// Package confloader loads configuration with koanf and watches the
// configuration file with fsnotify.
//
// Priority (highest to lowest):
//
//  1. Command-line flags (LoadMap)
//  2. Environment variables (RESPKV_ prefix)
//  3. Configuration file (YAML)
//  4. Values already present in the target struct
//
// Environment names are matched against the koanf keys of the target, so
// RESPKV_SERVER_REDIS_READ_BUFFER_SIZE sets server.redis.read_buffer_size.
package confloader
