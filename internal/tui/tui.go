package tui

import (
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"diagterm/internal/config"
	"diagterm/internal/history"
	"diagterm/internal/logging"
)

// Run launches the dashboard and blocks until the user quits. A refresh of
// zero falls back to the configured poll interval.
func Run(cfg *config.Config, logger *slog.Logger, refresh time.Duration) error {
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("prepare directories: %w", err)
	}

	// History is best effort here: a locked or corrupt database should not
	// keep the dashboard from starting.
	store, err := history.Open(cfg.DatabasePath())
	if err != nil {
		logging.NewComponentLogger(logger, "tui").Warn("open command history", logging.Error(err))
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	model := NewModel(cfg, logger, store, refresh)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}
