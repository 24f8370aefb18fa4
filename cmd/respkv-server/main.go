package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/infra/buildinfo"
	"github.com/yndnr/respkv/internal/infra/confloader"
	"github.com/yndnr/respkv/internal/server/config"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "respkv-server",
		Usage:   "in-memory key-value server speaking RESP",
		Version: buildinfo.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "configuration `FILE` (YAML)",
				EnvVars: []string{"RESPKV_CONFIG"},
			},
			&cli.StringFlag{Name: "addr", Usage: "RESP listen address"},
			&cli.StringFlag{Name: "http-addr", Usage: "admin HTTP listen address"},
			&cli.BoolFlag{Name: "no-http", Usage: "disable the admin HTTP server"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.StringFlag{Name: "log-format", Usage: "json or text"},
			&cli.IntFlag{Name: "rate-limit", Usage: "commands per second per client IP (0 = off)"},
			&cli.BoolFlag{Name: "strict", Usage: "reject unknown commands instead of answering OK"},
			&cli.DurationFlag{
				Name:  "shutdown-timeout",
				Usage: "time allowed for graceful shutdown",
				Value: 30 * time.Second,
			},
		},
		Action: func(c *cli.Context) error {
			flags := flagOverrides(c)
			cfg, err := loadConfig(c.String("config"), flags)
			if err != nil {
				return err
			}

			inst, err := newInstance(cfg, os.Stdout)
			if err != nil {
				return err
			}
			inst.configFile = c.String("config")
			inst.flags = flags
			inst.shutdownTimeout = c.Duration("shutdown-timeout")

			return inst.run(c.Context)
		},
	}
}

// flagOverrides maps the flags that were set to their config keys.
func flagOverrides(c *cli.Context) map[string]any {
	out := map[string]any{}
	set := func(flag, key string, v any) {
		if c.IsSet(flag) {
			out[key] = v
		}
	}
	set("addr", "server.redis.addr", c.String("addr"))
	set("http-addr", "server.http.addr", c.String("http-addr"))
	set("log-level", "log.level", c.String("log-level"))
	set("log-format", "log.format", c.String("log-format"))
	set("rate-limit", "server.redis.rate_limit", c.Int("rate-limit"))
	set("strict", "server.redis.strict", c.Bool("strict"))
	if c.Bool("no-http") {
		out["server.http.enabled"] = false
	}
	return out
}

// loadConfig loads defaults, the file, the environment and flags, then
// verifies the result.
func loadConfig(configFile string, flags map[string]any) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{confloader.WithFlags(flags)}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
