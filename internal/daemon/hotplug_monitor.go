package daemon

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"diagterm/internal/logging"
)

// hotplugSubsystems limits the udev stream to device classes that are
// interesting in a diagnostics log. Everything else is dropped at the
// matcher level.
var hotplugSubsystems = []string{"usb", "block", "net", "power_supply"}

// hotplugMonitor listens for udev netlink events and records device
// add/remove activity in the daemon log alongside the diagnostics feed.
type hotplugMonitor struct {
	logger *slog.Logger

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

func newHotplugMonitor(logger *slog.Logger) *hotplugMonitor {
	return &hotplugMonitor{
		logger: logging.NewComponentLogger(logger, "hotplug"),
	}
}

// Start begins listening for udev netlink events. A connection failure
// is non-fatal; the daemon runs without hotplug visibility.
func (m *hotplugMonitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		m.logger.Warn("netlink socket unavailable, hotplug events will not be logged",
			logging.Error(err))
		return nil
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	quit := m.quit
	go m.monitorLoop(ctx, quit)

	m.logger.Info("hotplug monitor started")
	return nil
}

// Stop shuts down the hotplug monitor.
func (m *hotplugMonitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}

	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.running = false
	m.logger.Info("hotplug monitor stopped")
}

// Running reports whether the monitor is active.
func (m *hotplugMonitor) Running() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *hotplugMonitor) monitorLoop(ctx context.Context, quit <-chan struct{}) {
	events := make(chan netlink.UEvent)
	errs := make(chan error)

	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	if conn == nil {
		return
	}

	monitorQuit := conn.Monitor(events, errs, buildHotplugMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-events:
			m.logEvent(uevent)
		case err := <-errs:
			m.logger.Warn("hotplug monitor error", logging.Error(err))
		}
	}
}

// buildHotplugMatcher accepts add and remove actions for the watched
// subsystems.
func buildHotplugMatcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	for _, subsystem := range hotplugSubsystems {
		rules.AddRule(netlink.RuleDefinition{
			Action: &action,
			Env: map[string]string{
				"SUBSYSTEM": subsystem,
			},
		})
	}
	return rules
}

func (m *hotplugMonitor) logEvent(uevent netlink.UEvent) {
	device := deviceLabel(uevent)
	if device == "" {
		return
	}
	m.logger.Info("device hotplug",
		logging.String("action", string(uevent.Action)),
		logging.String("device", device),
		logging.String("subsystem", uevent.Env["SUBSYSTEM"]))
}

// deviceLabel prefers DEVNAME and falls back to the kernel object path.
func deviceLabel(uevent netlink.UEvent) string {
	if name := strings.TrimSpace(uevent.Env["DEVNAME"]); name != "" {
		return name
	}
	return strings.TrimSpace(uevent.KObj)
}
