package main

import (
	"hadydotai/revstack/logging"
)

type DebugCommand struct {
	Args struct {
		File string `positional-arg-name:"FILE"`
	} `positional-args:"yes"`
}

var debugCommand DebugCommand

func (cmd *DebugCommand) Execute(args []string) error {
	repl, err := NewREPL(config)
	if err != nil {
		return err
	}

	if cmd.Args.File != "" {
		logging.Log(logging.LogLevelInfo, "Loading instructions into debugger", "file", cmd.Args.File)
		if err := repl.loadFile(cmd.Args.File); err != nil {
			repl.rl.Close()
			return err
		}
	}

	repl.Start()
	return nil
}

func init() {
	flagsparser.AddCommand(
		"debug",
		"Step through instructions interactively",
		"Starts a step debugger that can execute instructions one at a time and undo them again. An optional FILE is loaded into the queue",
		&debugCommand,
	)
}
