package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"diagterm/internal/config"
	"diagterm/internal/deps"
	"diagterm/internal/diagfeed"
	"diagterm/internal/history"
	"diagterm/internal/logging"
	"diagterm/internal/runner"
	"diagterm/internal/services"
	"diagterm/internal/sysinfo"
)

// ErrRunnerDisabled is returned when command execution is requested but
// disabled in configuration.
var ErrRunnerDisabled = errors.New("command runner disabled in configuration")

// Status reports daemon runtime state.
type Status struct {
	Running       bool
	PID           int
	StartedAt     time.Time
	FeedSelection diagfeed.Selection
	DatabasePath  string
	LockFilePath  string
	Dependencies  []deps.Status
}

// Daemon owns the long-running state of diagtermd.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	collector *sysinfo.Collector
	lister    *services.Lister
	store     *history.Store
	runner    *runner.Runner
	lock      *flock.Flock
	api       *apiServer
	hotplug   *hotplugMonitor

	feedMu sync.Mutex
	feed   *diagfeed.Feed
	tools  diagfeed.Tools

	mu         sync.Mutex
	running    bool
	startedAt  time.Time
	pid        int
	pollCancel context.CancelFunc
	pollDone   chan struct{}
}

// New wires a daemon from configuration. The history store is opened
// eagerly so schema problems surface before the daemon detaches.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	store, err := history.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}

	tools := diagfeed.DetectTools()
	if cfg.Feed.JournalBinary != "" {
		tools.Journal = cfg.Feed.JournalBinary
	}
	if cfg.Feed.DmesgBinary != "" {
		tools.Dmesg = cfg.Feed.DmesgBinary
	}
	feed := diagfeed.New(diagfeed.Options{
		Tools:   tools,
		Limit:   cfg.Feed.Limit,
		Timeout: time.Duration(cfg.Feed.ToolTimeoutMS) * time.Millisecond,
		Logger:  logger,
	})

	d := &Daemon{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "daemon"),
		collector: sysinfo.NewCollector(),
		lister:    services.NewLister(),
		store:     store,
		runner:    runner.New(time.Duration(cfg.Runner.Timeout) * time.Second),
		lock:      flock.New(cfg.LockPath()),
		feed:      feed,
		tools:     tools,
	}
	d.hotplug = newHotplugMonitor(logger)

	srv, err := newAPIServer(cfg, d, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	d.api = srv
	return d, nil
}

// Start acquires the daemon lock and launches the feed poller, hotplug
// monitor, and HTTP API.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return nil
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another daemon instance holds %s", d.cfg.LockPath())
	}

	if retention := d.cfg.Logging.RetentionDays; retention > 0 {
		if err := d.store.Prune(ctx, time.Duration(retention)*24*time.Hour); err != nil {
			d.logger.Warn("history prune failed", logging.Error(err))
		}
	}

	pollCtx, cancel := context.WithCancel(context.Background())
	d.pollCancel = cancel
	d.pollDone = make(chan struct{})
	go d.pollLoop(pollCtx)

	if err := d.hotplug.Start(pollCtx); err != nil {
		d.logger.Warn("hotplug monitor failed to start", logging.Error(err))
	}

	if d.api != nil {
		if err := d.api.start(pollCtx); err != nil {
			cancel()
			<-d.pollDone
			_ = d.lock.Unlock()
			return err
		}
	}

	d.running = true
	d.startedAt = time.Now().UTC()
	d.pid = os.Getpid()
	d.logger.Info("daemon started",
		logging.String("lock", d.cfg.LockPath()),
		logging.String("bind", d.cfg.Paths.APIBind))
	return nil
}

// Stop halts background work and releases the daemon lock.
func (d *Daemon) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return
	}

	if d.pollCancel != nil {
		d.pollCancel()
		d.pollCancel = nil
	}
	if d.pollDone != nil {
		<-d.pollDone
		d.pollDone = nil
	}
	d.hotplug.Stop()
	d.api.stop()

	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running = false
	d.logger.Info("daemon stopped")
}

// Close releases resources after Stop.
func (d *Daemon) Close() error {
	return d.store.Close()
}

// pollLoop drives the diagnostics feed on a fixed cadence.
func (d *Daemon) pollLoop(ctx context.Context) {
	defer close(d.pollDone)

	interval := time.Duration(d.cfg.Feed.PollInterval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Immediate first poll so the API has data before the first tick.
	d.pollFeed(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.pollFeed(ctx)
		}
	}
}

func (d *Daemon) pollFeed(ctx context.Context) {
	d.feedMu.Lock()
	before := d.feed.Selection()
	lines, reset := d.feed.Poll(ctx)
	after := d.feed.Selection()
	d.feedMu.Unlock()

	if after != before {
		d.logger.Info("diagnostics source changed",
			logging.String("from", string(before)),
			logging.String("to", string(after)))
	}
	if len(lines) > 0 {
		d.logger.Debug("diagnostics feed advanced",
			logging.Int("lines", len(lines)),
			logging.Bool("reset", reset))
	}
}

// FeedSnapshot returns the current source selection and up to limit of
// the most recent diagnostics lines.
func (d *Daemon) FeedSnapshot(limit int) (diagfeed.Selection, []string) {
	d.feedMu.Lock()
	defer d.feedMu.Unlock()

	selection := d.feed.Selection()
	lines := d.feed.Snapshot()
	if limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return selection, lines
}

// RunCommand executes a shell command and records it in history.
func (d *Daemon) RunCommand(ctx context.Context, command string) (string, runner.Result, error) {
	if !d.cfg.Runner.Enabled {
		return "", runner.Result{}, ErrRunnerDisabled
	}

	result, err := d.runner.Run(ctx, command)
	if err != nil {
		return "", runner.Result{}, err
	}

	id, err := d.store.Record(ctx, result)
	if err != nil {
		d.logger.Warn("failed to record run", logging.Error(err))
		id = ""
	}
	d.logger.Info("command executed",
		logging.String("command", command),
		logging.Int("exit_code", result.ExitCode),
		logging.Bool("timed_out", result.TimedOut))
	return id, result, nil
}

// RecentRuns returns command history, newest first.
func (d *Daemon) RecentRuns(ctx context.Context, limit int) ([]history.Run, error) {
	return d.store.Recent(ctx, limit)
}

// Summary collects a host snapshot.
func (d *Daemon) Summary(ctx context.Context) (sysinfo.Summary, error) {
	return d.collector.Summary(ctx)
}

// TopProcesses lists the busiest processes.
func (d *Daemon) TopProcesses(ctx context.Context, limit int) ([]sysinfo.ProcessInfo, error) {
	return d.collector.TopProcesses(ctx, limit)
}

// Services lists running systemd units.
func (d *Daemon) Services(ctx context.Context, limit int) []services.ServiceRow {
	return d.lister.Running(ctx, limit)
}

// ServicesAvailable reports whether systemctl was found.
func (d *Daemon) ServicesAvailable() bool {
	return d.lister.Available()
}

// Status reports daemon runtime state for the API and CLI.
func (d *Daemon) Status() Status {
	d.mu.Lock()
	running := d.running
	startedAt := d.startedAt
	pid := d.pid
	d.mu.Unlock()

	selection, _ := d.FeedSnapshot(0)

	return Status{
		Running:       running,
		PID:           pid,
		StartedAt:     startedAt,
		FeedSelection: selection,
		DatabasePath:  d.cfg.DatabasePath(),
		LockFilePath:  d.cfg.LockPath(),
		Dependencies:  deps.CheckBinaries(deps.Default()),
	}
}
