package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/yndnr/respkv/internal/infra/buildinfo"
	"github.com/yndnr/respkv/internal/infra/confloader"
	"github.com/yndnr/respkv/internal/infra/shutdown"
	"github.com/yndnr/respkv/internal/server/config"
	"github.com/yndnr/respkv/internal/server/httpserver"
	"github.com/yndnr/respkv/internal/server/redisserver"
	"github.com/yndnr/respkv/internal/storage/memory"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
)

// instance is one running server with its collaborators.
type instance struct {
	cfg     *config.ServerConfig
	log     logger.Logger
	store   *memory.Store
	metrics *metric.Registry
	redis   *redisserver.Server
	http    *httpserver.Server

	configFile      string
	flags           map[string]any
	shutdownTimeout time.Duration

	// onStarted runs once every listener is bound.
	onStarted func()
}

func newInstance(cfg *config.ServerConfig, out io.Writer) (*instance, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: out,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	store := memory.New()

	metrics := metric.NewRegistry()
	metrics.MustRegister(metric.NewStoreCollector(func() (int, int) {
		st := store.Stats()
		return st.Keys, st.Expired
	}))

	inst := &instance{
		cfg:             cfg,
		log:             log,
		store:           store,
		metrics:         metrics,
		redis:           redisserver.New(redisConfig(cfg), store, log.Slog(), metrics),
		shutdownTimeout: 30 * time.Second,
	}

	if cfg.Server.HTTP.Enabled {
		router := httpserver.NewRouter(httpserver.RouterConfig{
			Logger:  log.With("component", "http"),
			Metrics: metrics,
			Ready:   inst.ready,
		})
		inst.http = httpserver.New(cfg.Server.HTTP.Addr, router)
	}
	return inst, nil
}

func redisConfig(cfg *config.ServerConfig) *redisserver.Config {
	rc := redisserver.DefaultConfig()
	rc.Address = cfg.Server.Redis.Addr
	rc.ReadBufferSize = cfg.Server.Redis.ReadBufferSize
	rc.MaxPendingBytes = cfg.Server.Redis.MaxPendingBytes
	rc.IdleTimeout = cfg.Server.Redis.IdleTimeout
	rc.WriteTimeout = cfg.Server.Redis.WriteTimeout
	rc.RateLimit = cfg.Server.Redis.RateLimit
	rc.Strict = cfg.Server.Redis.Strict
	rc.MaxDepth = cfg.Protocol.MaxDepth
	rc.MaxArrayLen = cfg.Protocol.MaxArrayLen
	return rc
}

func (in *instance) ready() error {
	if in.redis.Addr() == nil {
		return errors.New("redis listener not started")
	}
	return nil
}

// start binds every listener. Serving continues in the background.
func (in *instance) start(ctx context.Context) error {
	if err := in.redis.Start(ctx); err != nil {
		return fmt.Errorf("start redis server: %w", err)
	}
	if in.http != nil {
		if err := in.http.Listen(); err != nil {
			_ = in.redis.Shutdown(context.Background())
			return fmt.Errorf("start http server: %w", err)
		}
		in.log.Info("http server listening", "addr", in.http.Addr().String())
		go func() {
			if err := in.http.Serve(); err != nil {
				in.log.Error("http server error", "error", err)
			}
		}()
	}
	return nil
}

// run starts the server and blocks until a signal or ctx ends, then
// shuts everything down.
func (in *instance) run(ctx context.Context) error {
	in.log.Info("starting respkv-server",
		"version", buildinfo.Get().Version,
		"commit", buildinfo.Get().Commit,
		"config", in.configFile)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := in.start(ctx); err != nil {
		return err
	}

	sh := shutdown.NewHandler(in.shutdownTimeout, shutdown.WithLogger(in.log.Slog()))
	sh.OnShutdown("redis", in.redis.Shutdown)
	if in.http != nil {
		sh.OnShutdown("http", in.http.Shutdown)
	}

	if in.configFile != "" {
		if err := in.watchConfig(ctx); err != nil {
			in.log.Warn("config hot reload disabled", "error", err)
		}
	}
	if in.onStarted != nil {
		in.onStarted()
	}

	if err := sh.Wait(ctx); err != nil {
		in.log.Error("shutdown error", "error", err)
		return err
	}
	in.log.Info("server stopped gracefully")
	return nil
}

func (in *instance) watchConfig(ctx context.Context) error {
	w, err := confloader.NewWatcher(in.configFile, confloader.WithWatcherLogger(in.log.Slog()))
	if err != nil {
		return err
	}
	w.OnChange(func(string) { in.reload() })
	go func() { _ = w.Run(ctx) }()
	return nil
}

// reload re-reads the configuration and applies the settings that can
// change at runtime. Only log.level is live; other changes need a restart.
func (in *instance) reload() {
	cfg, err := loadConfig(in.configFile, in.flags)
	if err != nil {
		in.log.Error("config reload failed", "error", err)
		return
	}

	before := logger.GetLevel()
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		in.log.Error("config reload failed", "error", err)
		return
	}
	if after := logger.GetLevel(); after != before {
		in.log.Info("log level changed", "from", before, "to", after)
	}

	if cfg.Server != in.cfg.Server || cfg.Protocol != in.cfg.Protocol {
		in.log.Warn("listener and protocol changes take effect after restart")
	}
}
