package views

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"labdoctor/internal/output"
	"labdoctor/ui/tui/styles"
)

const tabWidth = 14

// renderTabs draws one tab per section and an indicator bar that follows
// the spring-animated position in props.TabAnim.
func renderTabs(sections []output.Section, props ViewProps) string {
	var tabs []string
	for i, sec := range sections {
		dist := math.Abs(float64(i) - props.TabAnim)
		strength := 0.0
		if dist < 1.0 {
			strength = 1.0 - dist
		}

		style := lipgloss.NewStyle().Width(tabWidth).Padding(0, 1)
		if sec.Selected || strength > 0.5 {
			style = style.Bold(true).Foreground(lipgloss.Color("#FFF"))
		} else {
			style = style.Foreground(lipgloss.Color("#AAA"))
		}

		marker := lipgloss.NewStyle().Foreground(styles.StateColor(worstState(sec))).Render("●")
		tab := style.Render(marker + " " + truncate(sec.Title, tabWidth-4))
		tabs = append(tabs, zone.Mark(TabZoneID(i), tab))
	}

	offset := int(math.Round(props.TabAnim * tabWidth))
	if offset < 0 {
		offset = 0
	}
	indicator := strings.Repeat(" ", offset) +
		lipgloss.NewStyle().Foreground(styles.BrandColor).Render(strings.Repeat("▔", tabWidth))

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		indicator,
	)
}
