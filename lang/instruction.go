package lang

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Opcode is the mnemonic of an instruction.
type Opcode int

const (
	OpPush Opcode = iota
	OpPop
	OpAdd
	OpSub
	OpMul
	OpDiv
)

var opcodeNames = [...]string{"PUSH", "POP", "ADD", "SUB", "MUL", "DIV"}

func (op Opcode) String() string {
	if op >= 0 && int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return "UNKNOWN"
}

// Capture lets the grammar decode the opcode token straight into the enum.
// Matching is case-sensitive.
func (op *Opcode) Capture(values []string) error {
	for i, name := range opcodeNames {
		if values[0] == name {
			*op = Opcode(i)
			return nil
		}
	}
	return fmt.Errorf("unknown opcode %q", values[0])
}

// Arity is the number of operands the opcode takes in its textual form.
func (op Opcode) Arity() int {
	if op == OpPush {
		return 1
	}
	return 0
}

// Instruction is a parsed instruction line.
type Instruction struct {
	Op      Opcode
	Operand int32 // only meaningful for OpPush
}

// String renders the canonical text form, e.g. "PUSH -3".
func (i Instruction) String() string {
	if i.Op == OpPush {
		return fmt.Sprintf("%s %d", i.Op, i.Operand)
	}
	return i.Op.String()
}

// SyntaxError is returned by ParseInstruction. It unwraps to InvalidCommand.
type SyntaxError struct {
	Pos     lexer.Position
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("column %d: %s", e.Pos.Column, e.Message)
}

func (e *SyntaxError) Unwrap() error {
	return InvalidCommand
}

type instructionLine struct {
	Pos      lexer.Position
	Opcode   Opcode     `parser:"@Word"`
	Operands []*operand `parser:"@@*"`
}

type operand struct {
	Pos   lexer.Position
	Value string `parser:"@Word"`
}

var (
	// Whitespace covers everything unicode.IsSpace accepts, \v and U+0085
	// included, so splitting matches strings.Fields.
	instructionLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Word", Pattern: `[^\s\v\x{85}\p{Z}]+`},
		{Name: "whitespace", Pattern: `[\s\v\x{85}\p{Z}]+`},
	})

	instructionParser = participle.MustBuild[instructionLine](
		participle.Lexer(instructionLexer),
		participle.Elide("whitespace"),
	)
)

// ParseInstruction validates a single instruction line.
func ParseInstruction(text string) (Instruction, error) {
	line, err := instructionParser.ParseString("", text)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			return Instruction{}, &SyntaxError{Pos: perr.Position(), Message: perr.Message()}
		}
		return Instruction{}, &SyntaxError{Pos: lexer.Position{Line: 1, Column: 1}, Message: err.Error()}
	}

	if got, want := len(line.Operands), line.Opcode.Arity(); got != want {
		pos := line.Pos
		if got > want {
			pos = line.Operands[want].Pos
		}
		return Instruction{}, &SyntaxError{
			Pos:     pos,
			Message: fmt.Sprintf("%s takes %d operand(s), got %d", line.Opcode, want, got),
		}
	}

	instr := Instruction{Op: line.Opcode}
	if line.Opcode == OpPush {
		v, err := strconv.ParseInt(line.Operands[0].Value, 10, 32)
		if err != nil {
			return Instruction{}, &SyntaxError{
				Pos:     line.Operands[0].Pos,
				Message: fmt.Sprintf("operand %q is not a 32-bit integer", line.Operands[0].Value),
			}
		}
		instr.Operand = int32(v)
	}
	return instr, nil
}
