package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read by Merge.
const (
	EnvServer  = "RESPKV_SERVER"
	EnvOutput  = "RESPKV_OUTPUT"
	EnvTimeout = "RESPKV_TIMEOUT"
)

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".respkv", "cli.yaml")
}

// Load loads CLI configuration from file. A missing file yields the
// defaults; fields absent from the file keep their defaults.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path with owner-only permissions.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Merge applies environment values, then flag values, over cfg. Empty
// values are ignored. Recognized flag keys are "server", "output" and
// "timeout".
func Merge(cfg *CLIConfig, env map[string]string, flags map[string]string) (*CLIConfig, error) {
	out := *cfg
	layers := []map[string]string{
		{"server": env[EnvServer], "output": env[EnvOutput], "timeout": env[EnvTimeout]},
		flags,
	}
	for _, layer := range layers {
		if v := layer["server"]; v != "" {
			out.DefaultServer = v
		}
		if v := layer["output"]; v != "" {
			out.DefaultOutput = v
		}
		if v := layer["timeout"]; v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return nil, fmt.Errorf("invalid timeout %q: %w", v, err)
			}
			out.Timeout = d
		}
	}
	return &out, nil
}

// Environ returns the RESPKV_* variables Merge understands.
func Environ() map[string]string {
	env := make(map[string]string, 3)
	for _, k := range []string{EnvServer, EnvOutput, EnvTimeout} {
		if v, ok := os.LookupEnv(k); ok {
			env[k] = v
		}
	}
	return env
}
