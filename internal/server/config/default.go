package config

import "time"

// Default configuration values.
const (
	DefaultRedisAddr       = "127.0.0.1:6379"
	DefaultReadBufferSize  = 512
	DefaultMaxPendingBytes = 1 << 20
	DefaultIdleTimeout     = 5 * time.Minute
	DefaultWriteTimeout    = 30 * time.Second

	DefaultHTTPAddr = "127.0.0.1:5080"

	DefaultMaxDepth    = 32
	DefaultMaxArrayLen = 1024

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Redis: RedisConfig{
				Addr:            DefaultRedisAddr,
				ReadBufferSize:  DefaultReadBufferSize,
				MaxPendingBytes: DefaultMaxPendingBytes,
				IdleTimeout:     DefaultIdleTimeout,
				WriteTimeout:    DefaultWriteTimeout,
			},
			HTTP: HTTPConfig{
				Enabled: true,
				Addr:    DefaultHTTPAddr,
			},
		},
		Protocol: ProtocolSection{
			MaxDepth:    DefaultMaxDepth,
			MaxArrayLen: DefaultMaxArrayLen,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
