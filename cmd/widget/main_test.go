package main

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/dhamma-widget/internal/config"
)

func newFlagCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "widget"}
	registerFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	t.Cleanup(func() {
		backendURL, plain, markdown, history, logFile, verbose, timeout = "", false, false, false, "", false, 0
	})
	return cmd
}

func baseConfig() *config.Config {
	return &config.Config{
		Backend: config.BackendConfig{BaseURL: "http://127.0.0.1:5000", HistoryLimit: 10},
		Log:     config.LogConfig{File: "widget.log"},
	}
}

func TestApplyFlagsOverridesEnvironment(t *testing.T) {
	cmd := newFlagCommand(t,
		"--backend", "https://dhamma.example.com/",
		"--plain",
		"--markdown",
		"--history",
		"--log-file", "stderr",
		"-v",
		"--timeout", "3s",
	)
	cfg := baseConfig()

	require.NoError(t, applyFlags(cmd, cfg))
	assert.Equal(t, "https://dhamma.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	assert.True(t, cfg.Backend.SendHistory)
	assert.True(t, cfg.UI.Plain)
	assert.True(t, cfg.UI.Markdown)
	assert.Equal(t, "stderr", cfg.Log.File)
	assert.True(t, cfg.Log.Verbose)
}

func TestApplyFlagsKeepsUnsetValues(t *testing.T) {
	cmd := newFlagCommand(t)
	cfg := baseConfig()
	cfg.UI.Plain = true

	require.NoError(t, applyFlags(cmd, cfg))
	assert.Equal(t, "http://127.0.0.1:5000", cfg.Backend.BaseURL)
	assert.True(t, cfg.UI.Plain)
	assert.Equal(t, time.Duration(0), cfg.Backend.Timeout)
}

func TestApplyFlagsRejectsBadBackend(t *testing.T) {
	cmd := newFlagCommand(t, "--backend", "not a url")
	require.Error(t, applyFlags(cmd, baseConfig()))
}

func TestLongHelpListsRouting(t *testing.T) {
	help := rootCmd.Long
	for _, word := range []string{"อริยสัจ", "หลักธรรม", "นิพพาน", "/ask", "/chat"} {
		assert.Contains(t, help, word)
	}
}
