package views

import (
	"labdoctor/ui/tui/state"
)

func RenderDashboard(s state.AppState, props ViewProps) string {
	v := DashboardView{}
	return v.Render(s, props)
}
