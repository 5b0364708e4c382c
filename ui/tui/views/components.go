package views

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"labdoctor/internal/health"
	"labdoctor/internal/output"
	"labdoctor/ui/tui/styles"
)

func ColorForStatus(status string) lipgloss.Style {
	sStyle := styles.StatusStyle
	switch status {
	case health.StateOK.Label():
		return sStyle.Foreground(styles.OKColor)
	case health.StateWarn.Label():
		return sStyle.Foreground(styles.WarnColor)
	}
	return sStyle.Foreground(styles.FailColor)
}

// RowZoneID names the mouse zone of a row.
func RowZoneID(section, row int) string {
	return output.ItemKey(section, row)
}

// TabZoneID names the mouse zone of a section tab.
func TabZoneID(section int) string {
	return fmt.Sprintf("tab_%d", section)
}

// worstState is the state that colors a section's tab marker.
func worstState(sec output.Section) health.State {
	switch {
	case sec.Fail > 0:
		return health.StateFail
	case sec.Warn > 0:
		return health.StateWarn
	}
	return health.StateOK
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
