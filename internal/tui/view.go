package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"diagterm/internal/diagfeed"
	"diagterm/internal/sysinfo"
)

// View renders the dashboard.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("diagterm") + "  " + labelStyle.Render("host diagnostics"))
	b.WriteString("\n")

	b.WriteString(m.renderSummary())
	b.WriteString("\n")
	b.WriteString(m.renderFeed())
	b.WriteString("\n")
	b.WriteString(m.renderTables())
	b.WriteString("\n")
	b.WriteString(m.renderRunner())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter run command • ctrl+r refresh • ctrl+l clear output • q quit"))
	return b.String()
}

func (m Model) renderSummary() string {
	if !m.haveSummary {
		return m.pane("summary", labelStyle.Render("collecting..."))
	}
	s := m.summary
	lines := []string{
		fmt.Sprintf("%s  %s (%s)", s.Hostname, s.Platform, s.Kernel),
		fmt.Sprintf("up %s   load %.2f %.2f %.2f", sysinfo.FormatUptime(s.UptimeSeconds), s.Load1, s.Load5, s.Load15),
		fmt.Sprintf("cpu  %5.1f%% of %d cores", s.CPUPercent, s.CPUCount),
		fmt.Sprintf("mem  %s / %s   swap %s / %s",
			sysinfo.FormatBytes(s.MemUsed), sysinfo.FormatBytes(s.MemTotal),
			sysinfo.FormatBytes(s.SwapUsed), sysinfo.FormatBytes(s.SwapTotal)),
		fmt.Sprintf("disk %s / %s (%.1f%%)", sysinfo.FormatBytes(s.DiskUsed), sysinfo.FormatBytes(s.DiskTotal), s.DiskPercent),
		fmt.Sprintf("net  sent %s   recv %s", sysinfo.FormatBytes(s.NetSentBytes), sysinfo.FormatBytes(s.NetRecvBytes)),
		"power " + formatPower(s),
	}
	return m.pane("summary", strings.Join(lines, "\n"))
}

func formatPower(s sysinfo.Summary) string {
	if !s.PowerKnown {
		return labelStyle.Render("n/a")
	}
	return fmt.Sprintf("%.1f W", s.PowerWatts)
}

func (m Model) renderFeed() string {
	title := "diagnostics"
	switch m.selection {
	case diagfeed.SelectionJournal:
		title += " " + activeStyle.Render("[journal]")
	case diagfeed.SelectionDmesg:
		title += " " + warnStyle.Render("[dmesg]")
	case diagfeed.SelectionUnavailable:
		title += " " + errorStyle.Render("[unavailable]")
	}
	return m.pane(title, m.feedView.View())
}

func (m Model) renderTables() string {
	half := (m.width - 6) / 2
	if half >= 40 {
		procs := paneWidth("processes", m.procTable.View(), half)
		units := paneWidth("services", m.renderServices(), half)
		return lipgloss.JoinHorizontal(lipgloss.Top, procs, units)
	}
	return m.pane("processes", m.procTable.View()) + "\n" + m.pane("services", m.renderServices())
}

func (m Model) renderServices() string {
	if len(m.units) == 0 {
		return labelStyle.Render("systemctl unavailable or no running units")
	}
	lines := make([]string, 0, len(m.units))
	for _, unit := range m.units {
		marker := activeStyle.Render("●")
		if unit.Active != "active" {
			marker = warnStyle.Render("●")
		}
		lines = append(lines, fmt.Sprintf("%s %-28s %s", marker, unit.Name, labelStyle.Render(unit.Description)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRunner() string {
	var b strings.Builder
	if m.confirming {
		b.WriteString(confirmStyle.Render(fmt.Sprintf("run %q? [y/n]", m.pending)))
	} else if m.running {
		b.WriteString(warnStyle.Render("running..."))
	} else {
		b.WriteString(m.input.View())
	}
	if tail := tailLines(m.runLog, 6); len(tail) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(tail, "\n"))
	}
	return m.pane("run", b.String())
}

func tailLines(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}

func (m Model) pane(title, content string) string {
	inner := m.width - 4
	if inner < 20 {
		inner = 20
	}
	return paneWidth(title, content, inner)
}

func paneWidth(title, content string, width int) string {
	return paneStyle.Width(width).Render(paneTitleStyle.Render(title) + "\n" + content)
}
