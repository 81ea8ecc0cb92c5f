package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"hadydotai/revstack/logging"

	"github.com/BurntSushi/toml"
)

const defaultConfigFile = "revstack.toml"

// Config mirrors revstack.toml. Every field is optional.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Debugger DebuggerConfig `toml:"debugger"`
	Machine  MachineConfig  `toml:"machine"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type DebuggerConfig struct {
	Prompt       string `toml:"prompt"`
	HistoryFile  string `toml:"history-file"`
	HistoryLimit int    `toml:"history-limit"`
}

type MachineConfig struct {
	StackCapacity int `toml:"stack-capacity"`
}

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{Level: string(logging.LogLevelInfo)},
		Debugger: DebuggerConfig{
			Prompt:       "\033[32m⟩\033[0m ",
			HistoryFile:  "/tmp/.revstack_history",
			HistoryLimit: 1000,
		},
		Machine: MachineConfig{StackCapacity: 1024},
	}
}

// LoadConfig reads path over the defaults. A missing file is only an error
// when required is set, which is the case for an explicit --config.
func LoadConfig(path string, required bool) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, fmt.Errorf("unknown keys in config %s: %s", path, strings.Join(keys, ", "))
	}

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if cfg.Debugger.HistoryLimit < 0 {
		return nil, fmt.Errorf("invalid config %s: history-limit must not be negative", path)
	}
	return cfg, nil
}
