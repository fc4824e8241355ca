package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"diagterm/internal/diagfeed"
	"diagterm/internal/logging"
)

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{m.tickCmd()}
		if !m.polling {
			m.polling = true
			cmds = append(cmds, m.pollCmd())
		}
		return m, tea.Batch(cmds...)

	case pollDoneMsg:
		m.polling = false
		m.applyPoll(msg)
		return m, nil

	case runDoneMsg:
		m.running = false
		m.appendRunResult(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirming {
		switch msg.String() {
		case "y", "Y", "enter":
			m.confirming = false
			command := m.pending
			m.pending = ""
			m.running = true
			m.runLog = append(m.runLog, "$ "+command)
			return m, m.runCmd(command)
		case "n", "N", "esc", "ctrl+c":
			m.confirming = false
			m.pending = ""
			m.runLog = append(m.runLog, labelStyle.Render("(cancelled)"))
			return m, nil
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "q":
		// q only quits when it is not being typed into the command box.
		if m.input.Value() == "" {
			return m, tea.Quit
		}

	case "ctrl+r":
		if !m.polling {
			m.polling = true
			return m, m.pollCmd()
		}
		return m, nil

	case "ctrl+l":
		m.runLog = nil
		return m, nil

	case "enter":
		command := strings.TrimSpace(m.input.Value())
		if command == "" {
			return m, nil
		}
		if !m.cfg.Runner.Enabled {
			m.runLog = append(m.runLog, errorStyle.Render("command runner is disabled in the config"))
			return m, nil
		}
		if m.running {
			return m, nil
		}
		m.input.Reset()
		m.confirming = true
		m.pending = command
		return m, nil

	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		m.feedView, cmd = m.feedView.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// applyPoll folds one collection cycle into the model. Reset polls discard
// the pane and rewrite it from the feed snapshot; incremental polls append.
func (m *Model) applyPoll(msg pollDoneMsg) {
	if msg.summaryErr == nil {
		m.summary = msg.summary
		m.haveSummary = true
	} else {
		m.lastErr = msg.summaryErr
		m.logger.Warn("collect summary", logging.Error(msg.summaryErr))
	}
	m.processes = msg.processes
	m.units = msg.units
	m.procTable.SetRows(processRows(msg.processes))

	if msg.selection != m.selection {
		m.logger.Info("diagnostics source changed",
			logging.String("from", string(m.selection)),
			logging.String("to", string(msg.selection)))
	}
	m.selection = msg.selection

	if msg.reset {
		m.feedLines = append([]string(nil), msg.snapshot...)
	} else if len(msg.lines) > 0 {
		m.feedLines = append(m.feedLines, msg.lines...)
		if excess := len(m.feedLines) - feedLimit; excess > 0 {
			m.feedLines = m.feedLines[excess:]
		}
	}
	m.refreshFeedView()
}

func (m *Model) refreshFeedView() {
	if m.selection == diagfeed.SelectionUnavailable {
		m.feedView.SetContent(labelStyle.Render("no diagnostics source available (journalctl and dmesg both missing or failing)"))
		return
	}
	if len(m.feedLines) == 0 {
		m.feedView.SetContent(labelStyle.Render("no diagnostics yet"))
		return
	}
	atBottom := m.feedView.AtBottom()
	m.feedView.SetContent(strings.Join(m.feedLines, "\n"))
	if atBottom {
		m.feedView.GotoBottom()
	}
}

func (m *Model) appendRunResult(msg runDoneMsg) {
	if msg.err != nil {
		m.runLog = append(m.runLog, errorStyle.Render("run failed: "+msg.err.Error()))
		return
	}
	result := msg.result
	if output := strings.TrimRight(result.Output, "\n"); output != "" {
		m.runLog = append(m.runLog, strings.Split(output, "\n")...)
	}
	status := fmt.Sprintf("exit %d in %s", result.ExitCode, result.Duration.Round(time.Millisecond))
	if result.TimedOut {
		m.runLog = append(m.runLog, errorStyle.Render(status+" (timed out)"))
	} else if result.ExitCode == 0 {
		m.runLog = append(m.runLog, activeStyle.Render(status))
	} else {
		m.runLog = append(m.runLog, warnStyle.Render(status))
	}
	if excess := len(m.runLog) - maxRunLogLines; excess > 0 {
		m.runLog = m.runLog[excess:]
	}
}

// resize distributes the terminal between the fixed panes and the feed
// viewport, which absorbs whatever height is left.
func (m *Model) resize() {
	inner := m.width - 4
	if inner < 20 {
		inner = 20
	}
	m.feedView.Width = inner
	m.input.Width = inner - 4

	// title(1) + summary(9) + tables(12) + runner(9) + help(1) + feed chrome(2)
	feedHeight := m.height - 34
	if feedHeight < 3 {
		feedHeight = 3
	}
	m.feedView.Height = feedHeight
	m.refreshFeedView()
}
