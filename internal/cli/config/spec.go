package config

import "time"

// CLIConfig is the configuration for respkv-cli.
type CLIConfig struct {
	DefaultServer string        `yaml:"default_server"`
	DefaultOutput string        `yaml:"default_output"` // raw, json, yaml
	Timeout       time.Duration `yaml:"timeout"`
	HistoryFile   string        `yaml:"history_file,omitempty"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		DefaultServer: "127.0.0.1:6379",
		DefaultOutput: "raw",
		Timeout:       5 * time.Second,
	}
}
