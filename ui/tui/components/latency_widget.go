package components

import (
	"fmt"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart"
	"github.com/charmbracelet/lipgloss"

	"labdoctor/ui/tui/styles"
)

const (
	historyPoints = 31
	minCeilingMs  = 100.0
)

// LatencyWidget charts how long each refresh took to collect.
type LatencyWidget struct {
	Chart   linechart.Model
	History []float64
	Width   int
	Height  int
}

func NewLatencyWidget(width, height int) *LatencyWidget {
	// width, height, minX, maxX, minY, maxY
	lc := linechart.New(width, height, 0, historyPoints-1, 0, minCeilingMs)
	return &LatencyWidget{
		Chart:   lc,
		History: make([]float64, 0, historyPoints),
		Width:   width,
		Height:  height,
	}
}

// SetHistory replaces the plotted samples, keeping the newest ones.
func (c *LatencyWidget) SetHistory(samples []float64) {
	if len(samples) > historyPoints {
		samples = samples[len(samples)-historyPoints:]
	}
	c.History = append(c.History[:0], samples...)
}

func (c *LatencyWidget) Resize(w, h int) {
	c.Width = w
	c.Height = h
	c.Chart.Resize(w, h)
}

func (c *LatencyWidget) ceiling() float64 {
	top := minCeilingMs
	for _, v := range c.History {
		if v > top {
			top = v
		}
	}
	return top * 1.1
}

func (c *LatencyWidget) View() string {
	c.Chart.Clear()
	c.Chart.SetYRange(0, c.ceiling())
	c.Chart.SetViewYRange(0, c.ceiling())
	for i := 0; i < len(c.History)-1; i++ {
		c.Chart.DrawBrailleLine(
			canvas.Float64Point{X: float64(i), Y: c.History[i]},
			canvas.Float64Point{X: float64(i + 1), Y: c.History[i+1]},
		)
	}
	c.Chart.DrawXYAxisAndLabel()

	title := "Collection time"
	if n := len(c.History); n > 0 {
		title = fmt.Sprintf("Collection time (last %.0fms)", c.History[n-1])
	}
	return styles.CardStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render(title),
			c.Chart.View(),
		),
	)
}
