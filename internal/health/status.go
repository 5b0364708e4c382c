package health

import "time"

// State is the outcome of a single probe.
type State int

const (
	StateOK State = iota
	StateWarn
	StateFail
)

// Label returns the short tag shown next to a row.
func (s State) Label() string {
	switch s {
	case StateOK:
		return "OK"
	case StateWarn:
		return "WARN"
	default:
		return "FAIL"
	}
}

func (s State) String() string {
	return s.Label()
}

// Row is one probe result. Label identifies the probe and is the key used
// to look up remediations.
type Row struct {
	Label  string
	State  State
	Detail string
}

func OK(label, detail string) Row {
	return Row{Label: label, State: StateOK, Detail: detail}
}

func Warn(label, detail string) Row {
	return Row{Label: label, State: StateWarn, Detail: detail}
}

func Fail(label, detail string) Row {
	return Row{Label: label, State: StateFail, Detail: detail}
}

type Section struct {
	Title string
	Rows  []Row
}

// Snapshot is the complete result of one collection run. Sections and rows
// follow registry order.
type Snapshot struct {
	Sections    []Section
	CollectedAt time.Time
	Took        time.Duration
}

// RowAt returns the row under a cursor position.
func (s Snapshot) RowAt(section, row int) (Row, bool) {
	if section < 0 || section >= len(s.Sections) {
		return Row{}, false
	}
	rows := s.Sections[section].Rows
	if row < 0 || row >= len(rows) {
		return Row{}, false
	}
	return rows[row], true
}

// RowCount returns the number of rows in a section, or 0 when out of range.
func (s Snapshot) RowCount(section int) int {
	if section < 0 || section >= len(s.Sections) {
		return 0
	}
	return len(s.Sections[section].Rows)
}

// Counts tallies rows by state across every section.
func (s Snapshot) Counts() (ok, warn, fail int) {
	for _, sec := range s.Sections {
		for _, r := range sec.Rows {
			switch r.State {
			case StateOK:
				ok++
			case StateWarn:
				warn++
			default:
				fail++
			}
		}
	}
	return ok, warn, fail
}

func (s Snapshot) Clone() Snapshot {
	out := Snapshot{CollectedAt: s.CollectedAt, Took: s.Took}
	if s.Sections == nil {
		return out
	}
	out.Sections = make([]Section, len(s.Sections))
	for i, sec := range s.Sections {
		out.Sections[i] = Section{Title: sec.Title, Rows: append([]Row(nil), sec.Rows...)}
	}
	return out
}
