package lang

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a failed VM operation. Every kind is itself an error so
// callers can match with errors.Is(err, lang.StackUnderflow).
type ErrorKind int

const (
	NoInstructions ErrorKind = iota
	InvalidCommand
	StackUnderflow
	DivideByZero
)

func (k ErrorKind) Error() string {
	switch k {
	case NoInstructions:
		return "no instructions"
	case InvalidCommand:
		return "invalid command"
	case StackUnderflow:
		return "stack underflow"
	case DivideByZero:
		return "divide by zero"
	default:
		return "unknown error"
	}
}

// RuntimeError carries the kind of failure together with the instruction that
// raised it and a copy of the stack at the moment of failure.
type RuntimeError struct {
	Kind        ErrorKind
	Instruction string  // empty for NoInstructions
	Stack       []int32 // bottom to top, after any partial pops
	Err         error   // parse cause for InvalidCommand
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Instruction != "" {
		fmt.Fprintf(&b, " at %q", e.Instruction)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *RuntimeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func (vm *VM) newError(kind ErrorKind, instruction string, cause error) error {
	return &RuntimeError{
		Kind:        kind,
		Instruction: instruction,
		Stack:       vm.stack.values(),
		Err:         cause,
	}
}
