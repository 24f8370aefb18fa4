package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/yndnr/respkv/internal/telemetry/logger"
)

// Verify validates the configuration and reports every problem found.
func Verify(cfg *ServerConfig) error {
	return errors.Join(
		verifyRedis(&cfg.Server.Redis),
		verifyHTTP(&cfg.Server.HTTP, cfg.Server.Redis.Addr),
		verifyProtocol(&cfg.Protocol),
		verifyLog(&cfg.Log),
	)
}

func verifyRedis(cfg *RedisConfig) error {
	var errs []error
	if err := verifyAddr("server.redis.addr", cfg.Addr); err != nil {
		errs = append(errs, err)
	}
	if cfg.ReadBufferSize <= 0 {
		errs = append(errs, errors.New("server.redis.read_buffer_size must be positive"))
	}
	if cfg.MaxPendingBytes < cfg.ReadBufferSize {
		errs = append(errs, errors.New("server.redis.max_pending_bytes must be at least read_buffer_size"))
	}
	if cfg.IdleTimeout <= 0 {
		errs = append(errs, errors.New("server.redis.idle_timeout must be positive"))
	}
	if cfg.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.redis.write_timeout must be positive"))
	}
	if cfg.RateLimit < 0 {
		errs = append(errs, errors.New("server.redis.rate_limit must not be negative"))
	}
	return errors.Join(errs...)
}

func verifyHTTP(cfg *HTTPConfig, redisAddr string) error {
	if !cfg.Enabled {
		return nil
	}
	if err := verifyAddr("server.http.addr", cfg.Addr); err != nil {
		return err
	}
	if cfg.Addr == redisAddr {
		return fmt.Errorf("server.http.addr conflicts with server.redis.addr (%s)", cfg.Addr)
	}
	return nil
}

func verifyProtocol(cfg *ProtocolSection) error {
	var errs []error
	if cfg.MaxDepth < 1 {
		errs = append(errs, errors.New("protocol.max_depth must be at least 1"))
	}
	if cfg.MaxArrayLen < 1 {
		errs = append(errs, errors.New("protocol.max_array_len must be at least 1"))
	}
	return errors.Join(errs...)
}

func verifyLog(cfg *LogSection) error {
	var errs []error
	if !logger.ValidLevel(cfg.Level) {
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level))
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not one of json, text", cfg.Format))
	}
	return errors.Join(errs...)
}

func verifyAddr(key, addr string) error {
	if addr == "" {
		return fmt.Errorf("%s is required", key)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}
