package output

import (
	"fmt"
	"strings"

	"labdoctor/internal/collector"
	"labdoctor/internal/engine"
	"labdoctor/internal/health"
)

// UI/view-model types (no printing here)
type Item struct {
	Key      string
	Label    string
	Status   string
	State    health.State
	Detail   string
	Action   string
	Selected bool
}

type Section struct {
	ID       string
	Title    string
	Items    []Item
	Selected bool
	OK       int
	Warn     int
	Fail     int
}

type ActionLine struct {
	Label       string
	Description string
	Command     string
	Selected    bool
}

type DashboardView struct {
	Title    string
	Updated  string
	Error    string
	Notice   string
	Sections []Section
	Actions  []ActionLine
}

// Cursor is the selected section and row.
type Cursor struct {
	Section int
	Row     int
}

const Title = "Lab Doctor"

// BuildDashboard converts a snapshot and its actions into UI-ready sections.
func BuildDashboard(snap health.Snapshot, actions []engine.Action, cur Cursor) DashboardView {
	view := DashboardView{Title: Title}

	for si, sec := range snap.Sections {
		out := Section{
			ID:       sectionID(sec.Title),
			Title:    sec.Title,
			Selected: si == cur.Section,
		}
		for ri, row := range sec.Rows {
			it := Item{
				Key:      ItemKey(si, ri),
				Label:    row.Label,
				Status:   row.State.Label(),
				State:    row.State,
				Detail:   row.Detail,
				Selected: out.Selected && ri == cur.Row,
			}
			if a, ok := engine.ActionAt(actions, si, ri); ok {
				it.Action = a.Description
			}
			switch row.State {
			case health.StateOK:
				out.OK++
			case health.StateWarn:
				out.Warn++
			default:
				out.Fail++
			}
			out.Items = append(out.Items, it)
		}
		view.Sections = append(view.Sections, out)
	}

	for _, a := range actions {
		view.Actions = append(view.Actions, ActionLine{
			Label:       a.Label,
			Description: a.Description,
			Command:     a.CommandLine(),
			Selected:    a.SectionIdx == cur.Section && a.RowIdx == cur.Row,
		})
	}
	return view
}

// BuildRegistryView lists what the registry checks and the fix offered for
// each row, without running any probe.
func BuildRegistryView(reg *collector.Registry, remediations engine.Remediations) DashboardView {
	view := DashboardView{Title: Title + " probes"}
	index := make(map[string]int)
	for _, title := range reg.Sections() {
		index[title] = len(view.Sections)
		view.Sections = append(view.Sections, Section{ID: sectionID(title), Title: title})
	}
	for _, e := range reg.Entries() {
		si := index[e.Section]
		label := e.Probe.Label()
		it := Item{Key: ItemKey(si, len(view.Sections[si].Items)), Label: label}
		if rem, ok := remediations[label]; ok {
			it.Detail = rem.Description
			it.Action = engine.Action{Command: rem.Command}.CommandLine()
		}
		view.Sections[si].Items = append(view.Sections[si].Items, it)
	}
	return view
}

// ItemKey identifies a row across renders, e.g. for mouse zones.
func ItemKey(section, row int) string {
	return fmt.Sprintf("row_%d_%d", section, row)
}

func sectionID(title string) string {
	return strings.ToLower(strings.ReplaceAll(title, " ", "_"))
}
