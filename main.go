package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/psehgal/inboxzero/config"
	"github.com/psehgal/inboxzero/gemini"
	"github.com/psehgal/inboxzero/gmail"
	"github.com/psehgal/inboxzero/triage"
	"github.com/psehgal/inboxzero/tui"
)

const (
	configPath       = "config/triage.json"
	logPath          = "inboxzero.log"
	initialPollDelay = 1 * time.Second // let the TUI draw before the first fetch
)

func newLogger() (*zap.Logger, error) {
	// Log to a file so the TUI is not corrupted by log lines.
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{logPath}
	cfg.ErrorOutputPaths = []string{logPath}
	return cfg.Build()
}

func run() error {
	// .env carries GEMINI_API_KEY; absence of the file is fine when the
	// key is exported directly.
	_ = godotenv.Load()

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	logger.Info("application starting")

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is not set (put it in .env or the environment)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutdown signal received")
		cancel()
	}()

	cfgManager, err := config.NewManager(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config manager: %w", err)
	}
	settings := cfgManager.GetSettings()
	logger.Info("config loaded", zap.String("model", settings.Model))

	gmailClient, err := gmail.NewClient(ctx, cfgManager, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize Gmail client (is credentials.json present?): %w", err)
	}

	reasoner := gemini.NewClient(apiKey,
		gemini.WithModel(settings.Model),
		gemini.WithTimeout(cfgManager.ClassifyTimeout()),
	)

	auditLog := triage.NewAuditLog()
	reminders := triage.NewReminderBook()
	executor := triage.NewExecutor(gmailClient, auditLog, reminders, logger)
	orchestrator := triage.NewOrchestrator(triage.NewClassifier(reasoner), executor, auditLog, logger)

	msgChan := make(chan triage.RawMessage, 15)
	go gmailClient.StartMonitoring(ctx, msgChan, initialPollDelay, cfgManager.PollInterval(), settings.FetchCount)
	logger.Info("gmail monitoring started")

	model := tui.NewInitialModel(orchestrator, auditLog, reminders, msgChan,
		cfgManager.PollInterval(), cfgManager.ClassifyTimeout())
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	logger.Info("application stopped")
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
