package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"labdoctor/internal/output"
	"labdoctor/ui/tui/state"
	"labdoctor/ui/tui/styles"
)

const (
	defaultWidth = 80
	labelWidth   = 22
	chartWidth   = 36
)

type DashboardView struct{}

func (v DashboardView) Render(s state.AppState, props ViewProps) string {
	width := props.Width
	if width <= 0 {
		width = defaultWidth
	}
	dv := s.View(props.Now)

	parts := []string{renderHeader(dv, props)}

	if len(dv.Sections) == 0 {
		parts = append(parts, styles.MutedStyle.Padding(1, 1).Render("Running probes…"))
	} else {
		parts = append(parts, renderTabs(dv.Sections, props))

		panelWidth := width - 2
		showChart := props.ChartView != "" && width >= 2*chartWidth+10
		if showChart {
			panelWidth = width - chartWidth - 6
		}
		var body string
		for i := range dv.Sections {
			if dv.Sections[i].Selected {
				body = renderSection(dv.Sections[i], i, panelWidth)
			}
		}
		if showChart {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, props.ChartView)
		}
		parts = append(parts, body)
	}

	parts = append(parts, renderFooter(dv, width))
	if props.HelpView != "" {
		parts = append(parts, lipgloss.NewStyle().PaddingLeft(1).Render(props.HelpView))
	}

	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func renderHeader(dv output.DashboardView, props ViewProps) string {
	status := dv.Updated
	if props.Refreshing {
		status = props.SpinnerView + " refreshing"
	}

	var ok, warn, fail int
	for _, sec := range dv.Sections {
		ok += sec.OK
		warn += sec.Warn
		fail += sec.Fail
	}
	counts := ""
	if len(dv.Sections) > 0 {
		counts = fmt.Sprintf("  %s %s %s",
			lipgloss.NewStyle().Foreground(styles.OKColor).Render(fmt.Sprintf("%d ok", ok)),
			lipgloss.NewStyle().Foreground(styles.WarnColor).Render(fmt.Sprintf("%d warn", warn)),
			lipgloss.NewStyle().Foreground(styles.FailColor).Render(fmt.Sprintf("%d fail", fail)),
		)
	}

	return lipgloss.JoinHorizontal(lipgloss.Left,
		styles.TitleStyle.Render(dv.Title),
		styles.MutedStyle.Render(status),
		counts,
	)
}

func renderSection(sec output.Section, si, width int) string {
	detailWidth := width - labelWidth - 12
	if detailWidth < 10 {
		detailWidth = 10
	}

	var lines []string
	for i, it := range sec.Items {
		cursor := "  "
		if it.Selected {
			cursor = "▸ "
		}
		mark := " "
		if it.Action != "" {
			mark = lipgloss.NewStyle().Foreground(styles.BrandColor).Render("›")
		}
		line := cursor +
			lipgloss.NewStyle().Width(labelWidth).Render(truncate(it.Label, labelWidth-1)) +
			ColorForStatus(it.Status).Render(it.Status) +
			styles.MutedStyle.Render(truncate(it.Detail, detailWidth)) + " " + mark
		if it.Selected {
			line = styles.SelectedRowStyle.Render(line)
		}
		lines = append(lines, zone.Mark(RowZoneID(si, i), line))
	}
	if len(lines) == 0 {
		lines = append(lines, styles.MutedStyle.Render("  no checks in this section"))
	}

	return styles.CardStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render(sec.Title),
			strings.Join(lines, "\n"),
		),
	)
}

func renderFooter(dv output.DashboardView, width int) string {
	var lines []string

	if dv.Error != "" {
		lines = append(lines, styles.ErrorBannerStyle.Width(width-2).Render("Error: "+dv.Error))
	}

	lines = append(lines, lipgloss.NewStyle().Bold(true).Render("Actions"))
	if len(dv.Actions) == 0 {
		lines = append(lines, styles.MutedStyle.Render("  No runnable actions detected."))
	}
	for _, a := range dv.Actions {
		prefix := "  › "
		text := a.Label + ": " + a.Description
		if a.Command != "" {
			text += styles.MutedStyle.Render("  $ " + a.Command)
		}
		if a.Selected {
			prefix = "  ▸ "
			text = lipgloss.NewStyle().Bold(true).Render(text) + lipgloss.NewStyle().Foreground(styles.BrandColor).Render("  [enter]")
		}
		lines = append(lines, prefix+text)
	}

	if dv.Notice != "" {
		lines = append(lines, styles.NoticeStyle.Render(dv.Notice))
	}

	return lipgloss.NewStyle().PaddingLeft(1).PaddingTop(1).Render(strings.Join(lines, "\n"))
}
