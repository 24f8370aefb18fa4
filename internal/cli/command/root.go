package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/cli/config"
	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/internal/client"
	"github.com/yndnr/respkv/internal/infra/buildinfo"
)

const settingsKey = "settings"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "respkv-cli",
		Usage:   "command-line client for respkv",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			PingCommand(),
			EchoCommand(),
			GetCommand(),
			SetCommand(),
			RawCommand(),
			BenchCommand(),
			REPLCommand(),
		},
		Before: func(c *cli.Context) error {
			s, err := resolveSettings(c)
			if err != nil {
				return err
			}
			if c.App.Metadata == nil {
				c.App.Metadata = make(map[string]any)
			}
			c.App.Metadata[settingsKey] = s
			return nil
		},
		Action: func(c *cli.Context) error {
			return replAction(c)
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "server address `HOST:PORT` (default from config, then 127.0.0.1:6379)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: raw, json, yaml",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "CLI config `FILE`",
			Value: config.DefaultConfigPath(),
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "per-request timeout",
		},
	}
}

// Settings are the effective options after config, env and flags.
type Settings struct {
	Server      string
	Output      output.Format
	Timeout     time.Duration
	HistoryFile string
}

func resolveSettings(c *cli.Context) (*Settings, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	flags := map[string]string{}
	if c.IsSet("server") {
		flags["server"] = c.String("server")
	}
	if c.IsSet("output") {
		flags["output"] = c.String("output")
	}
	if c.IsSet("timeout") {
		flags["timeout"] = c.Duration("timeout").String()
	}

	cfg, err = config.Merge(cfg, config.Environ(), flags)
	if err != nil {
		return nil, err
	}

	format, err := output.ParseFormat(cfg.DefaultOutput)
	if err != nil {
		return nil, err
	}
	return &Settings{
		Server:      cfg.DefaultServer,
		Output:      format,
		Timeout:     cfg.Timeout,
		HistoryFile: cfg.HistoryFile,
	}, nil
}

// GetSettings returns the settings resolved in Before.
func GetSettings(c *cli.Context) *Settings {
	if s, ok := c.App.Metadata[settingsKey].(*Settings); ok {
		return s
	}
	return &Settings{
		Server:  config.Default().DefaultServer,
		Output:  output.FormatRaw,
		Timeout: client.DefaultTimeout,
	}
}

// connect dials the configured server.
func connect(c *cli.Context) (*client.Client, error) {
	s := GetSettings(c)
	ctx, cancel := context.WithTimeout(c.Context, s.Timeout)
	defer cancel()

	cl, err := client.Dial(ctx, s.Server, client.WithTimeout(s.Timeout))
	if err != nil {
		return nil, fmt.Errorf("connect failed: %w", err)
	}
	return cl, nil
}

// printResult formats data with the selected output format.
func printResult(c *cli.Context, data any) error {
	return output.NewFormatter(GetSettings(c).Output).Format(c.App.Writer, data)
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
