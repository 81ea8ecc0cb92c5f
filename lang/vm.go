package lang

import (
	"errors"

	"hadydotai/revstack/logging"
)

// VMState is a detached snapshot of everything a VM owns.
type VMState struct {
	Pending  []string        // head first
	Stack    []int32         // bottom to top
	Executed []string        // oldest first
	Inverse  [][]Instruction // oldest first, parallel to Executed
}

// Clone returns a deep copy.
func (s *VMState) Clone() *VMState {
	newState := &VMState{
		Pending:  append([]string(nil), s.Pending...),
		Stack:    append([]int32(nil), s.Stack...),
		Executed: append([]string(nil), s.Executed...),
		Inverse:  make([][]Instruction, len(s.Inverse)),
	}
	for i, group := range s.Inverse {
		newState.Inverse[i] = append([]Instruction(nil), group...)
	}
	return newState
}

// VM is a reversible stack machine. Every successful Forward can be undone
// with Back, restoring the stack and re-queueing the instruction.
//
// A VM is not safe for concurrent use.
type VM struct {
	pending *queue
	stack   vmStack
	history *history
}

// VMOpt configures a VM in NewVM.
type VMOpt func(*VM) *VM

// WithInstructions queues lines before the VM is returned.
func WithInstructions(lines ...string) VMOpt {
	return func(vm *VM) *VM {
		vm.pending.append(lines...)
		return vm
	}
}

// WithStackCapacity preallocates room for n values.
func WithStackCapacity(n int) VMOpt {
	return func(vm *VM) *VM {
		if n > 0 {
			vm.stack = make(vmStack, 0, n)
		}
		return vm
	}
}

// NewVM returns a VM with an empty queue, stack and history.
func NewVM(opts ...VMOpt) *VM {
	vm := &VM{
		pending: newQueue(),
		history: newHistory(),
	}
	for _, opt := range opts {
		vm = opt(vm)
	}
	return vm
}

// AddInstructions appends lines to the tail of the pending queue. Lines are
// stored verbatim and only parsed when they reach the head.
func (vm *VM) AddInstructions(lines ...string) {
	vm.pending.append(lines...)
}

// CurrentInstruction returns the line the next Forward will execute.
func (vm *VM) CurrentInstruction() (string, bool) {
	return vm.pending.head()
}

// SetCurrentInstruction replaces the line at the head of the pending queue.
func (vm *VM) SetCurrentInstruction(text string) error {
	if !vm.pending.setHead(text) {
		return vm.newError(NoInstructions, "", nil)
	}
	return nil
}

// Ready reports whether there is anything left to execute.
func (vm *VM) Ready() bool {
	return vm.pending.len() > 0
}

// Stack returns a copy of the stack, bottom to top.
func (vm *VM) Stack() []int32 {
	return vm.stack.values()
}

// Pending returns the queued lines, head first.
func (vm *VM) Pending() []string {
	return vm.pending.values()
}

// Executed returns the executed-instruction log, oldest first.
func (vm *VM) Executed() []string {
	return vm.history.executedValues()
}

// Inverse returns the undo groups, oldest first, one per Executed entry.
func (vm *VM) Inverse() [][]Instruction {
	return vm.history.inverseValues()
}

// State snapshots all four containers.
func (vm *VM) State() *VMState {
	return &VMState{
		Pending:  vm.Pending(),
		Stack:    vm.Stack(),
		Executed: vm.Executed(),
		Inverse:  vm.Inverse(),
	}
}

// Forward executes the instruction at the head of the pending queue.
//
// On StackUnderflow or DivideByZero from a binary operation the instruction
// stays queued and nothing is logged, but any operand already popped is gone.
func (vm *VM) Forward() error {
	text, ok := vm.pending.head()
	if !ok {
		return vm.newError(NoInstructions, "", nil)
	}

	instr, err := ParseInstruction(text)
	if err != nil {
		logging.Log(logging.LogLevelDebug, "rejected instruction", "instruction", text, "error", err)
		return vm.newError(InvalidCommand, text, err)
	}

	undo, err := vm.execute(instr)
	if err != nil {
		logging.Log(logging.LogLevelDebug, "forward failed", "instruction", text, "error", err)
		return vm.newError(err.(ErrorKind), text, nil)
	}

	vm.pending.dropHead()
	vm.history.record(text, undo)
	logging.Log(logging.LogLevelDebug, "forward", "instruction", text, "depth", vm.stack.depth())
	return nil
}

// execute applies instr to the stack and returns the inverse group. Errors
// are bare ErrorKind values.
func (vm *VM) execute(instr Instruction) ([]Instruction, error) {
	switch instr.Op {
	case OpPush:
		vm.stack.push(instr.Operand)
		return []Instruction{{Op: OpPop}}, nil
	case OpPop:
		v, ok := vm.stack.pop()
		if !ok {
			return nil, StackUnderflow
		}
		return []Instruction{{Op: OpPush, Operand: v}}, nil
	case OpAdd, OpSub, OpMul, OpDiv:
		return vm.executeBinary(instr.Op)
	default:
		return nil, InvalidCommand
	}
}

func (vm *VM) executeBinary(op Opcode) ([]Instruction, error) {
	// Both pops happen before either is checked.
	a, okA := vm.stack.pop()
	b, okB := vm.stack.pop()
	if !okA || !okB {
		return nil, StackUnderflow
	}

	var result int32
	switch op {
	case OpAdd:
		result = a + b
	case OpSub:
		result = a - b
	case OpMul:
		result = a * b
	case OpDiv:
		if b == 0 {
			return nil, DivideByZero
		}
		result = a / b
	}
	vm.stack.push(result)

	return []Instruction{
		{Op: OpPop},
		{Op: OpPush, Operand: b},
		{Op: OpPush, Operand: a},
	}, nil
}

// Back undoes the most recent successful Forward and puts its instruction
// back at the head of the pending queue.
func (vm *VM) Back() error {
	text, undo, ok := vm.history.pop()
	if !ok {
		return vm.newError(NoInstructions, "", nil)
	}
	vm.pending.prepend(text)

	for _, instr := range undo {
		switch instr.Op {
		case OpPush:
			vm.stack.push(instr.Operand)
		case OpPop:
			vm.stack.pop()
		default:
			return vm.newError(InvalidCommand, instr.String(), nil)
		}
	}
	logging.Log(logging.LogLevelDebug, "back", "instruction", text, "depth", vm.stack.depth())
	return nil
}

// Run calls Forward until the queue is exhausted. Running out of
// instructions is not an error.
func (vm *VM) Run() error {
	steps := 0
	for {
		err := vm.Forward()
		if errors.Is(err, NoInstructions) {
			logging.Log(logging.LogLevelDebug, "run finished", "steps", steps)
			return nil
		}
		if err != nil {
			logging.LogErr(err, "run aborted", "steps", steps, "depth", vm.stack.depth(), "pending", vm.pending.len())
			return err
		}
		steps++
	}
}
