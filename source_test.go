package main

import (
	"errors"
	"path/filepath"
	"testing"

	"hadydotai/revstack/lang"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProgram(t *testing.T) {
	p := ParseProgram("prog.rsm", "# setup\nPUSH 3\n\n  PUSH   4\r\nADD\n")

	assert.Equal(t, []SourceLine{
		{Filename: "prog.rsm", Line: 2, Text: "PUSH 3"},
		{Filename: "prog.rsm", Line: 4, Text: "  PUSH   4"},
		{Filename: "prog.rsm", Line: 5, Text: "ADD"},
	}, p.Lines)
	assert.Equal(t, []string{"PUSH 3", "  PUSH   4", "ADD"}, p.Instructions())
	assert.NoError(t, p.Check())
}

func TestReadProgramConcatenatesFiles(t *testing.T) {
	a := writeFile(t, "a.rsm", "PUSH 1\n")
	b := writeFile(t, "b.rsm", "PUSH 2\nADD\n")

	p, err := ReadProgram(a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"PUSH 1", "PUSH 2", "ADD"}, p.Instructions())
	assert.Equal(t, b, p.Lines[2].Filename)
	assert.Equal(t, 2, p.Lines[2].Line)

	_, err = ReadProgram(filepath.Join(t.TempDir(), "missing.rsm"))
	assert.Error(t, err)
}

func TestProgramCheck(t *testing.T) {
	p := ParseProgram("bad.rsm", "PUSH 1\nPUSH one\nPOP 2\n")

	err := p.Check()
	require.Error(t, err)
	assert.True(t, errors.Is(err, lang.InvalidCommand))

	var serr *SourceError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "bad.rsm", serr.Pos.Filename)
	assert.Equal(t, 2, serr.Pos.Line)
	assert.Equal(t, 6, serr.Pos.Column)
	assert.Equal(t, "one", serr.Snippet)

	msg := err.Error()
	assert.Contains(t, msg, "bad.rsm:2:6")
	assert.Contains(t, msg, "   2 | PUSH one")
	assert.Contains(t, msg, "^~~")
	assert.Contains(t, msg, "bad.rsm:3:5")
}

func TestProgramLocate(t *testing.T) {
	p := ParseProgram("p.rsm", "PUSH 1\n\nPUSH 0\nDIV\n")

	line, ok := p.Locate(1)
	require.True(t, ok)
	assert.Equal(t, 4, line.Line)

	line, ok = p.Locate(3)
	require.True(t, ok)
	assert.Equal(t, 1, line.Line)

	_, ok = p.Locate(0)
	assert.False(t, ok)
	_, ok = p.Locate(4)
	assert.False(t, ok)
}

func TestTokenAt(t *testing.T) {
	assert.Equal(t, "abc", tokenAt("PUSH abc def", 6))
	assert.Equal(t, "PUSH", tokenAt("PUSH abc", 1))
	assert.Equal(t, "", tokenAt("PUSH", 0))
	assert.Equal(t, "", tokenAt("PUSH", 9))
}
