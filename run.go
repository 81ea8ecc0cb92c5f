package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"hadydotai/revstack/lang"
	"hadydotai/revstack/logging"

	"github.com/alecthomas/repr"
)

type RunCommand struct {
	Dump  bool `short:"d" long:"dump" description:"Dump the full machine state once the run stops"`
	Check bool `long:"check" description:"Validate every instruction before executing any of them"`
	Args  struct {
		Files []string `positional-arg-name:"FILES" required:"yes"`
	} `positional-args:"yes"`

	out io.Writer
}

var runCommand RunCommand

func (cmd *RunCommand) Execute(args []string) error {
	out := cmd.out
	if out == nil {
		out = os.Stdout
	}

	program, err := ReadProgram(cmd.Args.Files...)
	if err != nil {
		return err
	}
	logging.Log(logging.LogLevelInfo, "Loaded instructions", "files", strings.Join(cmd.Args.Files, ","), "count", len(program.Lines))

	if cmd.Check {
		if err := program.Check(); err != nil {
			return err
		}
	}

	vm := lang.NewVM(
		lang.WithStackCapacity(config.Machine.StackCapacity),
		lang.WithInstructions(program.Instructions()...),
	)
	runErr := vm.Run()

	fmt.Fprintln(out, formatStack(vm.Stack()))
	if cmd.Dump {
		fmt.Fprintln(out, repr.String(vm.State(), repr.Indent("  ")))
	}

	if runErr != nil {
		if line, ok := program.Locate(len(vm.Pending())); ok {
			var serr *lang.SyntaxError
			if errors.As(runErr, &serr) {
				return program.sourceError(line, serr)
			}
			return fmt.Errorf("%s:%d: %w", line.Filename, line.Line, runErr)
		}
		return runErr
	}

	logging.Log(logging.LogLevelInfo, "Run finished", "executed", len(vm.Executed()), "depth", len(vm.Stack()))
	return nil
}

func formatStack(stack []int32) string {
	values := make([]string, len(stack))
	for i, v := range stack {
		values[i] = strconv.FormatInt(int64(v), 10)
	}
	return "[" + strings.Join(values, ", ") + "]"
}

func init() {
	flagsparser.AddCommand(
		"run",
		"Run instruction files to completion",
		"Reads instruction lines from each file in order (blank lines and # comments are skipped), runs them and prints the final stack",
		&runCommand,
	)
}
