package views

import (
	"time"

	"labdoctor/ui/tui/state"
)

// ViewProps contains UI-specific properties provided by the Controller.
type ViewProps struct {
	Width, Height int
	Now           time.Time

	// Component States
	Refreshing  bool
	SpinnerView string
	ChartView   string
	HelpView    string
	TabAnim     float64
}

// View defines the contract for any renderable page in the TUI.
type View interface {
	Render(s state.AppState, props ViewProps) string
}
