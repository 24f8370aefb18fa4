package config

import "time"

// ServerConfig is the root configuration for respkv-server.
type ServerConfig struct {
	Server   ServerSection   `koanf:"server"`
	Protocol ProtocolSection `koanf:"protocol"`
	Log      LogSection      `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	Redis RedisConfig `koanf:"redis"`
	HTTP  HTTPConfig  `koanf:"http"`
}

// RedisConfig configures the RESP listener.
type RedisConfig struct {
	Addr string `koanf:"addr"`

	// ReadBufferSize is the fixed chunk size of each socket read.
	ReadBufferSize int `koanf:"read_buffer_size"`

	// MaxPendingBytes caps bytes buffered while a frame is incomplete.
	MaxPendingBytes int `koanf:"max_pending_bytes"`

	IdleTimeout  time.Duration `koanf:"idle_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// RateLimit is commands per second per client IP; 0 disables it.
	RateLimit int `koanf:"rate_limit"`

	// Strict rejects unknown commands and non-array requests instead of
	// answering +OK.
	Strict bool `koanf:"strict"`
}

// HTTPConfig configures the admin HTTP server.
type HTTPConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// ProtocolSection bounds decoder work per connection.
type ProtocolSection struct {
	MaxDepth    int `koanf:"max_depth"`
	MaxArrayLen int `koanf:"max_array_len"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
