package main

import (
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/carprep/dataset"
	"github.com/ezoic/carprep/metrics"
	"github.com/ezoic/carprep/pkg/config"
	"github.com/ezoic/carprep/pkg/errors"
	"github.com/ezoic/carprep/pkg/log"
	"github.com/ezoic/carprep/transformation"
)

func newEvaluateCmd(a *app) *cobra.Command {
	var predictionsPath string

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score predicted labels against the test split",
		Long: "Encodes the test split with a fitted preprocessor and reports accuracy and per-class " +
			"precision, recall and F1 for the labels in the first column of the predictions CSV.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load(cmd, map[string]string{
				config.KeyTestPath:     TestFlag,
				config.KeyArtifactPath: ArtifactFlag,
				config.KeyPlotPath:     PlotFlag,
			})
			if err != nil {
				return err
			}
			if err := required(config.KeyTestPath, cfg.TestPath); err != nil {
				return err
			}
			if err := required(PredictionsFlag, predictionsPath); err != nil {
				return err
			}
			return runEvaluate(cmd, cfg, predictionsPath)
		},
	}

	cmd.Flags().String(TestFlag, "", "test split CSV")
	cmd.Flags().String(ArtifactFlag, config.DefaultArtifactPath, "fitted preprocessor")
	cmd.Flags().StringVar(&predictionsPath, PredictionsFlag, "", "CSV with one predicted label per test row")
	cmd.Flags().String(PlotFlag, "", "write a per-class F1 bar chart to this image file")
	return cmd
}

// labelPredictor returns predictions computed elsewhere.
type labelPredictor struct {
	y *mat.VecDense
}

func (p labelPredictor) Predict(X mat.Matrix) (mat.Matrix, error) {
	r, _ := X.Dims()
	if r != p.y.Len() {
		return nil, errors.NewDimensionError("labelPredictor.Predict", r, p.y.Len(), 0)
	}
	return p.y, nil
}

func runEvaluate(cmd *cobra.Command, cfg *config.Config, predictionsPath string) error {
	pre, err := transformation.LoadPreprocessor(cfg.ArtifactPath)
	if err != nil {
		return err
	}

	testTable, err := dataset.ReadCSV(cfg.TestPath)
	if err != nil {
		return err
	}
	arr, err := pre.TransformWithTarget(testTable)
	if err != nil {
		return err
	}
	X, yTrue, err := transformation.SplitFeaturesTarget(arr)
	if err != nil {
		return err
	}

	predTable, err := dataset.ReadCSV(predictionsPath)
	if err != nil {
		return err
	}
	labels, err := predTable.Column(predTable.Columns()[0])
	if err != nil {
		return err
	}
	if len(labels) == 0 {
		return errors.NewModelError("evaluate", "no predictions", errors.ErrEmptyData)
	}
	encoded, err := pre.Target.Transform(labels)
	if err != nil {
		return err
	}

	report, err := metrics.Evaluate(labelPredictor{y: mat.NewVecDense(len(encoded), encoded)},
		X, yTrue, pre.Target.Classes, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if cfg.PlotPath != "" {
		if err := metrics.SaveReportPlot(report, cfg.PlotPath); err != nil {
			return err
		}
		log.GetLoggerWithName("carprep").Info("Saved report plot", log.PathKey, cfg.PlotPath)
	}
	return nil
}
