package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"hadydotai/revstack/lang"

	"github.com/alecthomas/participle/v2/lexer"
)

const instructionHelp = "expected one of PUSH <int32>, POP, ADD, SUB, MUL, DIV"

// SourceLine is one instruction read from a file, with its 1-based line number.
type SourceLine struct {
	Filename string
	Line     int
	Text     string
}

// Program is the instruction lines of one or more files, in order. Blank lines
// and lines starting with '#' are dropped; everything else is kept verbatim.
type Program struct {
	Lines   []SourceLine
	sources map[string]string
}

func ReadProgram(filenames ...string) (*Program, error) {
	p := &Program{sources: make(map[string]string)}
	for _, filename := range filenames {
		source, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read instruction file %s: %w", filename, err)
		}
		p.add(filename, string(source))
	}
	return p, nil
}

func ParseProgram(filename, source string) *Program {
	p := &Program{sources: make(map[string]string)}
	p.add(filename, source)
	return p
}

func (p *Program) add(filename, source string) {
	p.sources[filename] = source
	for i, text := range strings.Split(source, "\n") {
		text = strings.TrimSuffix(text, "\r")
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		p.Lines = append(p.Lines, SourceLine{Filename: filename, Line: i + 1, Text: text})
	}
}

func (p *Program) Instructions() []string {
	out := make([]string, len(p.Lines))
	for i, line := range p.Lines {
		out[i] = line.Text
	}
	return out
}

// Check parses every line up front and reports all malformed ones.
func (p *Program) Check() error {
	var errs []error
	for _, line := range p.Lines {
		if _, err := lang.ParseInstruction(line.Text); err != nil {
			errs = append(errs, p.sourceError(line, err))
		}
	}
	return errors.Join(errs...)
}

// Locate maps the number of instructions still pending back to the line that
// sits at the head of the queue.
func (p *Program) Locate(pending int) (SourceLine, bool) {
	idx := len(p.Lines) - pending
	if pending <= 0 || idx < 0 {
		return SourceLine{}, false
	}
	return p.Lines[idx], true
}

func (p *Program) sourceError(line SourceLine, err error) *SourceError {
	pos := lexer.Position{Filename: line.Filename, Line: line.Line, Column: 1}
	message := err.Error()

	var serr *lang.SyntaxError
	if errors.As(err, &serr) {
		message = serr.Message
		if serr.Pos.Column > 0 {
			pos.Column = serr.Pos.Column
		}
	}
	return &SourceError{
		Message: message,
		Pos:     pos,
		Source:  p.sources[line.Filename],
		Help:    instructionHelp,
		Snippet: tokenAt(line.Text, pos.Column),
	}
}

// SourceError points at the offending token of an instruction file.
type SourceError struct {
	Message string
	Pos     lexer.Position
	Source  string
	Help    string
	Snippet string
}

func (e *SourceError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "\x1b[1;31minvalid instruction\x1b[0m: %s\n", e.Message)

	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line > 0 && e.Pos.Line <= len(lines) {
		line := strings.TrimSuffix(lines[e.Pos.Line-1], "\r")
		fmt.Fprintf(&b, "\x1b[1;34m-->\x1b[0m %s:%d:%d\n", e.Pos.Filename, e.Pos.Line, e.Pos.Column)
		fmt.Fprintf(&b, "%4d | %s\n", e.Pos.Line, line)

		pointer := strings.Repeat(" ", max(e.Pos.Column-1, 0)) + "\x1b[1;31m^"
		if n := len([]rune(e.Snippet)); n > 1 {
			pointer += strings.Repeat("~", n-1)
		}
		fmt.Fprintf(&b, "     | %s\x1b[0m\n", pointer)
	}

	if e.Help != "" {
		fmt.Fprintf(&b, "\x1b[1;32mhelp\x1b[0m: %s\n", e.Help)
	}
	return b.String()
}

func (e *SourceError) Unwrap() error {
	return lang.InvalidCommand
}

// tokenAt returns the whitespace-delimited token starting at the 1-based rune
// column.
func tokenAt(text string, column int) string {
	runes := []rune(text)
	if column < 1 || column > len(runes) {
		return ""
	}
	rest := runes[column-1:]
	end := len(rest)
	for i, r := range rest {
		if unicode.IsSpace(r) {
			end = i
			break
		}
	}
	return string(rest[:end])
}
