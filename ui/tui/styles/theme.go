package styles

import (
	"github.com/charmbracelet/lipgloss"

	"labdoctor/internal/health"
)

var (
	Subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	Highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	Special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	Muted     = lipgloss.AdaptiveColor{Light: "#6B6B6B", Dark: "#8A8A8A"}

	BrandColor = lipgloss.Color("#f27b24")
	BaseColor  = lipgloss.Color("#444")

	OKColor   = lipgloss.Color("46")
	WarnColor = lipgloss.Color("220")
	FailColor = lipgloss.Color("196")

	TitleStyle = lipgloss.NewStyle().
			MarginRight(2).
			Padding(0, 1).
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(BrandColor)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Highlight).
			Padding(0, 1)

	StatusStyle = lipgloss.NewStyle().
			Bold(true).
			Width(6)

	SelectedRowStyle = lipgloss.NewStyle().
				Background(lipgloss.AdaptiveColor{Light: "#E8E3FF", Dark: "#2A2440"})

	MutedStyle = lipgloss.NewStyle().Foreground(Muted)

	ErrorBannerStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(FailColor).
				Padding(0, 1)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(Special).
			Italic(true)
)

// StateColor maps a probe state to its display color.
func StateColor(s health.State) lipgloss.Color {
	switch s {
	case health.StateOK:
		return OKColor
	case health.StateWarn:
		return WarnColor
	default:
		return FailColor
	}
}
