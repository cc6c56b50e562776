package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	carpErrors "github.com/ezoic/carprep/pkg/errors"
)

// SaveReportPlot draws the per-class F1 scores of report as a bar chart and
// saves it to path. The image format follows the extension (.png, .svg,
// .pdf, ...).
func SaveReportPlot(report *Report, path string) error {
	const op = "SaveReportPlot"
	if report == nil || len(report.Classes) == 0 {
		return carpErrors.NewValueError(op, "report has no classes")
	}

	values := make(plotter.Values, len(report.Classes))
	names := make([]string, len(report.Classes))
	for i, c := range report.Classes {
		values[i] = c.F1
		names[i] = c.Name
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("F1 score per class (accuracy %.2f)", report.Accuracy)
	p.Y.Label.Text = "F1"
	p.Y.Min = 0
	p.Y.Max = 1

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return carpErrors.Wrap(err, "SaveReportPlot: failed to create bar chart")
	}
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = vg.Length(0)

	p.Add(bars)
	p.NominalX(names...)

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return carpErrors.NewIOError(op, path, fmt.Errorf("failed to create directory: %w", err))
		}
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return carpErrors.NewIOError(op, path, err)
	}
	return nil
}
