package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zhouzirui/dhamma-widget/internal/analysis/topic"
	"github.com/zhouzirui/dhamma-widget/internal/config"
	"github.com/zhouzirui/dhamma-widget/internal/logging"
	"github.com/zhouzirui/dhamma-widget/internal/service/backend"
	"github.com/zhouzirui/dhamma-widget/internal/service/chat"
	"github.com/zhouzirui/dhamma-widget/internal/ui"
	"github.com/zhouzirui/dhamma-widget/internal/widget"
)

// flags overriding environment configuration
var (
	backendURL string
	plain      bool
	markdown   bool
	history    bool
	logFile    string
	verbose    bool
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:          "widget",
	Short:        "Terminal chat widget for the Dhamma chatbot backend",
	Long:         longHelp(),
	SilenceUsage: true,
	RunE:         run,
}

func longHelp() string {
	return fmt.Sprintf(`widget reads messages from the terminal and forwards each one to the chatbot
backend. Messages mentioning any of %s go to %s, everything
else goes to %s. Replies are appended to the transcript as they arrive.

Configuration is read from the environment (and a .env file), then overridden
by flags.`, strings.Join(topic.Keywords(), ", "), topic.Ask.Path(), topic.Chat.Path())
}

func init() {
	registerFlags(rootCmd)
}

func registerFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&backendURL, "backend", "", "backend base URL (WIDGET_BACKEND_URL)")
	cmd.Flags().BoolVar(&plain, "plain", false, "line mode: read stdin, print the transcript to stdout (WIDGET_PLAIN)")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "render bot replies as markdown (WIDGET_MARKDOWN)")
	cmd.Flags().BoolVar(&history, "history", false, "send prior turns as history (WIDGET_SEND_HISTORY)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "log output path or stderr (WIDGET_LOG_FILE)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging (WIDGET_VERBOSE)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "HTTP timeout, 0 waits forever (WIDGET_TIMEOUT_SECONDS)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	// Load .env file
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	transcript := chat.NewService(cfg.Backend.BaseURL)
	client := backend.NewClient(cfg.Backend, logger)
	controller := widget.New(transcript, client, logger, widget.Options{
		SendHistory:  cfg.Backend.SendHistory,
		HistoryLimit: cfg.Backend.HistoryLimit,
	})

	logger.Info("widget started",
		zap.String("session", transcript.Session().ID),
		zap.String("backend", cfg.Backend.BaseURL),
		zap.Bool("plain", cfg.UI.Plain),
		zap.Bool("history", cfg.Backend.SendHistory),
	)

	ctx := cmd.Context()
	if cfg.UI.Plain {
		err = ui.RunPlain(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), controller, transcript)
	} else {
		err = ui.Run(ctx, controller, transcript, ui.Options{Markdown: cfg.UI.Markdown})
	}
	if err != nil {
		logger.Error("widget stopped", zap.Error(err))
		return err
	}

	logger.Info("widget stopped", zap.Int("messages", transcript.Len()))
	return nil
}

// applyFlags lets explicitly set flags win over environment values.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend.BaseURL = strings.TrimRight(backendURL, "/")
	}
	if flags.Changed("timeout") {
		cfg.Backend.Timeout = timeout
	}
	if flags.Changed("history") {
		cfg.Backend.SendHistory = history
	}
	if flags.Changed("plain") {
		cfg.UI.Plain = plain
	}
	if flags.Changed("markdown") {
		cfg.UI.Markdown = markdown
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}
	if flags.Changed("verbose") {
		cfg.Log.Verbose = verbose
	}
	return cfg.Backend.Validate()
}
