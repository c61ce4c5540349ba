package ytsentiment

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SaveAccuracyPlot writes a box plot of the fold accuracies, one box per
// method, to path. The image format follows the file extension.
func SaveAccuracyPlot(result EvaluationResult, path string) error {
	if len(result.Methods) == 0 {
		return fmt.Errorf("no methods to plot")
	}

	p := plot.New()
	p.Title.Text = "Algorithm Comparison"
	p.Y.Label.Text = "Accuracy"

	width := vg.Points(20)
	names := make([]string, len(result.Methods))
	for i, m := range result.Methods {
		names[i] = m.Name
		box, err := plotter.NewBoxPlot(width, float64(i), plotter.Values(m.Folds))
		if err != nil {
			return fmt.Errorf("plotting %s: %w", m.Name, err)
		}
		p.Add(box)
	}
	p.NominalX(names...)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("saving accuracy plot: %w", err)
	}
	return nil
}
