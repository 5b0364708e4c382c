package console

import (
	"fmt"
	"io"
	"strings"

	"labdoctor/internal/output"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"

	labelWidth = 24
)

// Print renders a dashboard view as plain text. Escape codes are only
// written when color is set.
func Print(w io.Writer, view output.DashboardView, color bool) {
	paint := func(code, s string) string {
		if !color || code == "" {
			return s
		}
		return code + s + colorReset
	}

	fmt.Fprintf(w, "%s %s\n", paint(colorCyan, "■"), strings.ToUpper(view.Title))

	for _, sec := range view.Sections {
		fmt.Fprintln(w, paint(colorCyan, "─ "+sec.Title))

		for _, it := range sec.Items {
			label := it.Label
			if len(label) > labelWidth-2 {
				label = label[:labelWidth-5] + "..."
			}
			dots := strings.Repeat("·", labelWidth-len(label))

			line := "  " + label + paint(colorGray, dots)
			if it.Status != "" {
				line += " " + paint(colorFor(it.Status), fmt.Sprintf("%-4s", it.Status))
			}
			if it.Detail != "" {
				line += " " + it.Detail
			}
			fmt.Fprintln(w, line)

			if it.Action != "" {
				fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", labelWidth), paint(colorGray, "$ "+it.Action))
			}
		}
	}

	if len(view.Actions) > 0 {
		fmt.Fprintln(w, paint(colorCyan, "─ Actions"))
		for _, a := range view.Actions {
			fmt.Fprintf(w, "  %s: %s\n", a.Label, a.Description)
		}
	}
	fmt.Fprintln(w)
}

func colorFor(status string) string {
	switch status {
	case "WARN":
		return colorYellow
	case "FAIL":
		return colorRed
	case "OK":
		return colorGreen
	default:
		return ""
	}
}
