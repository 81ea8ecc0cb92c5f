package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"hadydotai/revstack/lang"
	"hadydotai/revstack/logging"

	"github.com/alecthomas/repr"
	"github.com/chzyer/readline"
)

type REPL struct {
	vm      *lang.VM
	program *Program
	rl      *readline.Instance
	out     io.Writer
}

func NewREPL(cfg *Config) (*REPL, error) {
	rlConfig := &readline.Config{
		Prompt:          cfg.Debugger.Prompt,
		HistoryFile:     cfg.Debugger.HistoryFile,
		HistoryLimit:    cfg.Debugger.HistoryLimit,
		AutoComplete:    completer{},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	}

	rl, err := readline.NewEx(rlConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to start line editor: %w", err)
	}

	return &REPL{
		vm:  newMachine(nil),
		rl:  rl,
		out: rl.Stdout(),
	}, nil
}

func newMachine(program *Program) *lang.VM {
	vm := lang.NewVM(lang.WithStackCapacity(config.Machine.StackCapacity))
	if program != nil {
		vm.AddInstructions(program.Instructions()...)
	}
	return vm
}

// completer implements readline.AutoCompleter
type completer struct{}

var replCommands = []string{
	"step", "s", "n",
	"back", "b",
	"continue", "c",
	"append", "a",
	"edit", "e",
	"current",
	"stack",
	"pending",
	"history",
	"dump",
	"load",
	"restart", "r",
	"quit", "q",
	"help", "h",
}

func (c completer) Do(line []rune, pos int) (newLine [][]rune, length int) {
	input := string(line[:pos])
	for _, cmd := range replCommands {
		if strings.HasPrefix(cmd, input) {
			newLine = append(newLine, []rune(cmd[len(input):]))
		}
	}
	return newLine, len(input)
}

func (r *REPL) printHelp() {
	help := `
Available Commands:
  step, s, n          Execute the next pending instruction
  back, b             Undo the last executed instruction
  continue, c         Run until the queue is empty or an error occurs
  append, a <instr>   Queue an instruction at the tail, e.g. "a PUSH 3"
  edit, e <instr>     Replace the instruction at the head of the queue
  current             Show the next instruction
  stack               Show the stack, bottom to top
  pending             Show the pending queue
  history             Show executed instructions and their undo groups
  dump                Dump the whole machine state
  load <file>         Load an instruction file into a fresh machine
  restart, r          Reload the last file into a fresh machine
  help, h             Show this help message
  quit, q             Exit debugger
`
	fmt.Fprintln(r.out, help)
}

func (r *REPL) Start() {
	defer r.rl.Close()

	fmt.Fprintln(r.out, "\033[1;36mrevstack debugger\033[0m")
	fmt.Fprintln(r.out, "Type 'help' or 'h' for available commands")
	fmt.Fprintln(r.out)

	for {
		line, err := r.rl.Readline()
		if err != nil { // io.EOF, readline.ErrInterrupt
			break
		}

		if quit := r.handle(strings.Fields(line)); quit {
			return
		}
	}
}

// handle runs one command and reports whether the session should end.
func (r *REPL) handle(args []string) bool {
	if len(args) == 0 {
		return false
	}

	switch args[0] {
	case "help", "h":
		r.printHelp()

	case "step", "s", "n":
		if !r.vm.Ready() {
			fmt.Fprintln(r.out, "\033[31mNo pending instructions\033[0m")
			return false
		}
		if r.report(r.vm.Forward()) {
			r.printState()
		}

	case "back", "b":
		if r.report(r.vm.Back()) {
			r.printState()
		}

	case "continue", "c":
		if r.report(r.vm.Run()) {
			fmt.Fprintln(r.out, "\033[32mQueue exhausted\033[0m")
		}
		r.printState()

	case "append", "a":
		if len(args) < 2 {
			fmt.Fprintln(r.out, "Usage: append <instruction>")
			return false
		}
		r.vm.AddInstructions(strings.Join(args[1:], " "))

	case "edit", "e":
		if len(args) < 2 {
			fmt.Fprintln(r.out, "Usage: edit <instruction>")
			return false
		}
		if r.report(r.vm.SetCurrentInstruction(strings.Join(args[1:], " "))) {
			r.printState()
		}

	case "current":
		r.printCurrent()

	case "stack":
		fmt.Fprintln(r.out, "Stack:", formatStack(r.vm.Stack()))

	case "pending":
		for i, line := range r.vm.Pending() {
			fmt.Fprintf(r.out, "%4d  %s\n", i, line)
		}

	case "history":
		r.printHistory()

	case "dump":
		fmt.Fprintln(r.out, repr.String(r.vm.State(), repr.Indent("  ")))

	case "load":
		if len(args) < 2 {
			fmt.Fprintln(r.out, "Usage: load <filename>")
			return false
		}
		if err := r.loadFile(args[1]); err != nil {
			fmt.Fprintf(r.out, "\033[31mError loading file: %v\033[0m\n", err)
			return false
		}
		fmt.Fprintf(r.out, "\033[32mLoaded file: %s\033[0m\n", args[1])
		r.printState()

	case "restart", "r":
		r.vm = newMachine(r.program)
		fmt.Fprintln(r.out, "Machine restarted")

	case "quit", "q":
		fmt.Fprintln(r.out, "\033[32mGoodbye!\033[0m")
		return true

	default:
		fmt.Fprintf(r.out, "\033[31mUnknown command: %s\033[0m\n", args[0])
	}
	return false
}

// report prints err and returns true when there was none.
func (r *REPL) report(err error) bool {
	if err == nil {
		return true
	}
	logging.Log(logging.LogLevelDebug, "debugger command failed", "error", err)

	var rerr *lang.RuntimeError
	if errors.As(err, &rerr) && (rerr.Kind == lang.StackUnderflow || rerr.Kind == lang.DivideByZero) {
		fmt.Fprintf(r.out, "\033[31mError: %v\033[0m (stack now %s)\n", err, formatStack(rerr.Stack))
		return false
	}
	fmt.Fprintf(r.out, "\033[31mError: %v\033[0m\n", err)
	return false
}

func (r *REPL) printCurrent() {
	if next, ok := r.vm.CurrentInstruction(); ok {
		fmt.Fprintf(r.out, "\033[1;33mNext: %s\033[0m\n", next)
		return
	}
	fmt.Fprintln(r.out, "\033[31mNo pending instructions\033[0m")
}

func (r *REPL) printState() {
	fmt.Fprintf(r.out, "\033[1;35mStep %d\033[0m, %d pending\n", len(r.vm.Executed()), len(r.vm.Pending()))
	r.printCurrent()
	fmt.Fprintf(r.out, "\033[1;32mStack:\033[0m %s\n", formatStack(r.vm.Stack()))
}

func (r *REPL) printHistory() {
	executed, inverse := r.vm.Executed(), r.vm.Inverse()
	for i := range executed {
		undo := make([]string, len(inverse[i]))
		for j, instr := range inverse[i] {
			undo[j] = instr.String()
		}
		fmt.Fprintf(r.out, "%4d  %-16s \033[90mundo: %s\033[0m\n", i+1, executed[i], strings.Join(undo, "; "))
	}
}

func (r *REPL) loadFile(filename string) error {
	program, err := ReadProgram(filename)
	if err != nil {
		return err
	}
	if err := program.Check(); err != nil {
		return err
	}

	r.program = program
	r.vm = newMachine(program)
	return nil
}
