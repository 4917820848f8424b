package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config 聚合 widget 的全部配置项。
type Config struct {
	Backend BackendConfig
	UI      UIConfig
	Log     LogConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	backend, err := loadBackendConfig()
	if err != nil {
		return nil, err
	}

	ui, err := loadUIConfig()
	if err != nil {
		return nil, err
	}

	logCfg, err := loadLogConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Backend: backend, UI: ui, Log: logCfg}, nil
}

// BackendConfig 描述后端 /ask 与 /chat 所在的服务。
type BackendConfig struct {
	BaseURL string
	// Timeout 为 0 表示不设超时。
	Timeout      time.Duration
	SendHistory  bool
	HistoryLimit int
}

// Validate 检查后端地址是否可用。
func (c BackendConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid WIDGET_BACKEND_URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid WIDGET_BACKEND_URL %q: scheme must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid WIDGET_BACKEND_URL %q: host is required", c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout %s", c.Timeout)
	}
	return nil
}

// UIConfig 描述终端界面选项。
type UIConfig struct {
	Plain    bool
	Markdown bool
}

// LogConfig 描述日志输出。
type LogConfig struct {
	File    string
	Verbose bool
}

const (
	defaultBackendURL   = "http://127.0.0.1:5000"
	defaultHistoryLimit = 10
	defaultLogFile      = "widget.log"
)

func loadBackendConfig() (BackendConfig, error) {
	baseURL := strings.TrimRight(getEnvOrDefault("WIDGET_BACKEND_URL", defaultBackendURL), "/")

	var timeout time.Duration
	seconds, err := parseOptionalIntEnv("WIDGET_TIMEOUT_SECONDS")
	if err != nil {
		return BackendConfig{}, err
	}
	if seconds != nil {
		if *seconds < 0 {
			return BackendConfig{}, fmt.Errorf("invalid WIDGET_TIMEOUT_SECONDS value %d: must not be negative", *seconds)
		}
		timeout = time.Duration(*seconds) * time.Second
	}

	sendHistory, err := parseBoolEnv("WIDGET_SEND_HISTORY", false)
	if err != nil {
		return BackendConfig{}, err
	}

	historyLimit := defaultHistoryLimit
	if override, err := parseOptionalIntEnv("WIDGET_HISTORY_LIMIT"); err != nil {
		return BackendConfig{}, err
	} else if override != nil {
		if *override < 1 {
			historyLimit = 1
		} else {
			historyLimit = *override
		}
	}

	cfg := BackendConfig{
		BaseURL:      baseURL,
		Timeout:      timeout,
		SendHistory:  sendHistory,
		HistoryLimit: historyLimit,
	}
	if err := cfg.Validate(); err != nil {
		return BackendConfig{}, err
	}
	return cfg, nil
}

func loadUIConfig() (UIConfig, error) {
	plain, err := parseBoolEnv("WIDGET_PLAIN", false)
	if err != nil {
		return UIConfig{}, err
	}

	markdown, err := parseBoolEnv("WIDGET_MARKDOWN", false)
	if err != nil {
		return UIConfig{}, err
	}

	return UIConfig{Plain: plain, Markdown: markdown}, nil
}

func loadLogConfig() (LogConfig, error) {
	verbose, err := parseBoolEnv("WIDGET_VERBOSE", false)
	if err != nil {
		return LogConfig{}, err
	}

	return LogConfig{
		File:    getEnvOrDefault("WIDGET_LOG_FILE", defaultLogFile),
		Verbose: verbose,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
