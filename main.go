package main

import (
	"os"

	"hadydotai/revstack/logging"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	LogLevel logging.LogLevel `short:"l" long:"loglevel" description:"Set the level of logging, overrides the config file" choice:"none" choice:"info" choice:"debug"`
	Config   string           `short:"c" long:"config" description:"Path to a TOML config file (default: ./revstack.toml when present)"`
}

var (
	opts        Options
	config      = DefaultConfig()
	flagsparser = flags.NewParser(&opts, flags.Default)
)

// setup loads the config file and installs the logger. Flags win over the
// file.
func setup() error {
	path, required := opts.Config, true
	if path == "" {
		path, required = defaultConfigFile, false
	}
	cfg, err := LoadConfig(path, required)
	if err != nil {
		return err
	}
	config = cfg

	level := logging.LogLevel(config.Log.Level)
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logging.Setup(level)
	logging.Log(logging.LogLevelDebug, "configured", "config", path, "loglevel", level)
	return nil
}

func main() {
	flagsparser.CommandHandler = func(command flags.Commander, args []string) error {
		if err := setup(); err != nil {
			return err
		}
		return command.Execute(args)
	}

	if _, err := flagsparser.Parse(); err != nil {
		switch flagsErr := err.(type) {
		case *flags.Error:
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
			os.Exit(1)
		default:
			os.Exit(1)
		}
	}
}
