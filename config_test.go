package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "revstack.toml", `
[log]
level = "debug"

[debugger]
prompt = "> "
history-limit = 10

[machine]
stack-capacity = 64
`)
	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "> ", cfg.Debugger.Prompt)
	assert.Equal(t, 10, cfg.Debugger.HistoryLimit)
	assert.Equal(t, 64, cfg.Machine.StackCapacity)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultConfig().Debugger.HistoryFile, cfg.Debugger.HistoryFile)
}

func TestLoadConfigMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")

	cfg, err := LoadConfig(missing, false)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = LoadConfig(missing, true)
	assert.Error(t, err)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{name: "unknown key", content: "[machine]\nregisters = 4\n", errMsg: "machine.registers"},
		{name: "bad level", content: "[log]\nlevel = \"loud\"\n", errMsg: "loud"},
		{name: "negative history", content: "[debugger]\nhistory-limit = -1\n", errMsg: "history-limit"},
		{name: "syntax", content: "[log\n", errMsg: "failed to load config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, "revstack.toml", tt.content), true)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
