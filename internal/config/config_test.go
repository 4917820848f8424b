package config

import (
	"testing"
	"time"
)

func clearWidgetEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"WIDGET_BACKEND_URL",
		"WIDGET_TIMEOUT_SECONDS",
		"WIDGET_SEND_HISTORY",
		"WIDGET_HISTORY_LIMIT",
		"WIDGET_PLAIN",
		"WIDGET_MARKDOWN",
		"WIDGET_LOG_FILE",
		"WIDGET_VERBOSE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearWidgetEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Backend.BaseURL != defaultBackendURL {
		t.Fatalf("unexpected base URL %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 0 {
		t.Fatalf("expected no timeout by default, got %s", cfg.Backend.Timeout)
	}
	if cfg.Backend.SendHistory {
		t.Fatal("history must be off by default")
	}
	if cfg.Backend.HistoryLimit != defaultHistoryLimit {
		t.Fatalf("unexpected history limit %d", cfg.Backend.HistoryLimit)
	}
	if cfg.UI.Plain || cfg.UI.Markdown {
		t.Fatalf("unexpected ui defaults %+v", cfg.UI)
	}
	if cfg.Log.File != defaultLogFile || cfg.Log.Verbose {
		t.Fatalf("unexpected log defaults %+v", cfg.Log)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearWidgetEnv(t)
	t.Setenv("WIDGET_BACKEND_URL", "https://dhamma.example.com/")
	t.Setenv("WIDGET_TIMEOUT_SECONDS", "15")
	t.Setenv("WIDGET_SEND_HISTORY", "true")
	t.Setenv("WIDGET_HISTORY_LIMIT", "0")
	t.Setenv("WIDGET_PLAIN", "1")
	t.Setenv("WIDGET_MARKDOWN", "true")
	t.Setenv("WIDGET_LOG_FILE", "stderr")
	t.Setenv("WIDGET_VERBOSE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Backend.BaseURL != "https://dhamma.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 15*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.Backend.Timeout)
	}
	if !cfg.Backend.SendHistory {
		t.Fatal("expected history enabled")
	}
	if cfg.Backend.HistoryLimit != 1 {
		t.Fatalf("expected history limit clamped to 1, got %d", cfg.Backend.HistoryLimit)
	}
	if !cfg.UI.Plain || !cfg.UI.Markdown {
		t.Fatalf("unexpected ui config %+v", cfg.UI)
	}
	if cfg.Log.File != "stderr" || !cfg.Log.Verbose {
		t.Fatalf("unexpected log config %+v", cfg.Log)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"WIDGET_BACKEND_URL":     "ftp://example.com",
		"WIDGET_TIMEOUT_SECONDS": "soon",
		"WIDGET_SEND_HISTORY":    "maybe",
		"WIDGET_HISTORY_LIMIT":   "ten",
		"WIDGET_PLAIN":           "yes please",
		"WIDGET_VERBOSE":         "loud",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearWidgetEnv(t)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}

func TestLoadRejectsNegativeTimeout(t *testing.T) {
	clearWidgetEnv(t)
	t.Setenv("WIDGET_TIMEOUT_SECONDS", "-1")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative timeout")
	}
}

func TestBackendConfigValidateRequiresHost(t *testing.T) {
	cfg := BackendConfig{BaseURL: "http://"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing host")
	}
}
