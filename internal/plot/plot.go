// Package plot renders the annealer's energy history as a line chart,
// standing in for the matplotlib figure of the original classroom script.
package plot

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SaveEnergyCurve writes a PNG line chart of the energy history to path:
// iteration index on the x-axis, best-so-far energy on the y-axis. The
// history must contain at least one entry.
func SaveEnergyCurve(history []float64, path string) error {
	if len(history) == 0 {
		return fmt.Errorf("plot: empty energy history")
	}

	pts := make(plotter.XYs, len(history))
	for i, e := range history {
		pts[i].X = float64(i)
		pts[i].Y = e
	}

	p := plot.New()
	p.Title.Text = "Energy during simulated annealing"
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "System energy"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("plot: build line: %w", err)
	}
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Color = color.RGBA{R: 0xff, G: 0xa5, A: 0xff}
	p.Add(line)
	p.Legend.Add("best energy", line)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("plot: save %s: %w", path, err)
	}
	return nil
}
