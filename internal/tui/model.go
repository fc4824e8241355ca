package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"diagterm/internal/config"
	"diagterm/internal/diagfeed"
	"diagterm/internal/history"
	"diagterm/internal/logging"
	"diagterm/internal/runner"
	"diagterm/internal/services"
	"diagterm/internal/sysinfo"
)

const (
	// feedLimit is the dashboard feed window, larger than the daemon default
	// so scrollback survives a busy burst.
	feedLimit = 200

	// maxRunLogLines bounds the runner output pane.
	maxRunLogLines = 500

	defaultRefresh = 2 * time.Second
)

// Model is the bubbletea model for the dashboard.
type Model struct {
	cfg     *config.Config
	logger  *slog.Logger
	refresh time.Duration

	collector *sysinfo.Collector
	lister    *services.Lister
	feed      *diagfeed.Feed
	run       *runner.Runner
	store     *history.Store

	width  int
	height int
	ready  bool

	polling bool
	running bool

	summary     sysinfo.Summary
	haveSummary bool
	processes   []sysinfo.ProcessInfo
	units       []services.ServiceRow
	selection   diagfeed.Selection
	feedLines   []string
	lastErr     error

	feedView  viewport.Model
	procTable table.Model
	input     textinput.Model
	runLog    []string

	confirming bool
	pending    string
}

// tickMsg fires on the refresh cadence.
type tickMsg time.Time

// pollDoneMsg carries one full collection cycle back into the model.
type pollDoneMsg struct {
	summary    sysinfo.Summary
	summaryErr error
	processes  []sysinfo.ProcessInfo
	units      []services.ServiceRow
	lines      []string
	reset      bool
	snapshot   []string
	selection  diagfeed.Selection
}

// runDoneMsg reports a finished shell command.
type runDoneMsg struct {
	result runner.Result
	err    error
}

// NewModel builds the dashboard model. The store may be nil, in which case
// runner results are shown but not recorded.
func NewModel(cfg *config.Config, logger *slog.Logger, store *history.Store, refresh time.Duration) Model {
	if refresh <= 0 {
		refresh = time.Duration(cfg.Feed.PollInterval) * time.Second
	}
	if refresh <= 0 {
		refresh = defaultRefresh
	}

	tools := diagfeed.DetectTools()
	if cfg.Feed.JournalBinary != "" {
		tools.Journal = cfg.Feed.JournalBinary
	}
	if cfg.Feed.DmesgBinary != "" {
		tools.Dmesg = cfg.Feed.DmesgBinary
	}

	ti := textinput.New()
	ti.Placeholder = "shell command"
	ti.CharLimit = 512
	ti.Prompt = "$ "
	ti.Focus()

	vp := viewport.New(0, 0)
	vp.SetContent("waiting for first poll...")

	return Model{
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "tui"),
		refresh: refresh,
		collector: sysinfo.NewCollector(),
		lister:    services.NewLister(),
		feed: diagfeed.New(diagfeed.Options{
			Tools:   tools,
			Limit:   feedLimit,
			Timeout: time.Duration(cfg.Feed.ToolTimeoutMS) * time.Millisecond,
			Logger:  logger,
		}),
		run:       runner.New(time.Duration(cfg.Runner.Timeout) * time.Second),
		store:     store,
		selection: diagfeed.SelectionNone,
		feedView:  vp,
		procTable: newProcessTable(),
		input:     ti,
	}
}

// Init starts the first poll immediately so the screen has data before the
// first tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.pollCmd(), m.tickCmd())
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// pollCmd runs one full collection cycle. The caller must have set the
// in-flight flag first; only one pollCmd may be outstanding because the feed
// has no internal locking.
func (m Model) pollCmd() tea.Cmd {
	feed := m.feed
	collector := m.collector
	lister := m.lister
	cfg := m.cfg
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var msg pollDoneMsg
		msg.summary, msg.summaryErr = collector.Summary(ctx)
		msg.processes, _ = collector.TopProcesses(ctx, cfg.Collect.ProcessCount)
		msg.units = lister.Running(ctx, cfg.Collect.ServiceLimit)
		msg.lines, msg.reset = feed.Poll(ctx)
		if msg.reset {
			msg.snapshot = feed.Snapshot()
		}
		msg.selection = feed.Selection()
		return msg
	}
}

// runCmd executes the pending shell command and records it when a history
// store is attached.
func (m Model) runCmd(command string) tea.Cmd {
	run := m.run
	store := m.store
	logger := m.logger
	return func() tea.Msg {
		result, err := run.Run(context.Background(), command)
		if err == nil && store != nil {
			if _, recErr := store.Record(context.Background(), result); recErr != nil {
				logger.Warn("record command history", logging.Error(recErr))
			}
		}
		return runDoneMsg{result: result, err: err}
	}
}

func newProcessTable() table.Model {
	columns := []table.Column{
		{Title: "PID", Width: 7},
		{Title: "NAME", Width: 20},
		{Title: "USER", Width: 10},
		{Title: "CPU%", Width: 6},
		{Title: "MEM%", Width: 6},
		{Title: "READ", Width: 9},
		{Title: "WRITTEN", Width: 9},
	}
	t := table.New(table.WithColumns(columns), table.WithHeight(8))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(lipgloss.Color("#7AA2F7"))
	styles.Selected = styles.Cell
	t.SetStyles(styles)
	t.Blur()
	return t
}

func processRows(processes []sysinfo.ProcessInfo) []table.Row {
	rows := make([]table.Row, 0, len(processes))
	for _, p := range processes {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", p.PID),
			p.Name,
			p.User,
			fmt.Sprintf("%.1f", p.CPUPercent),
			fmt.Sprintf("%.1f", p.MemPercent),
			sysinfo.FormatBytes(p.ReadBytes),
			sysinfo.FormatBytes(p.WriteBytes),
		})
	}
	return rows
}
