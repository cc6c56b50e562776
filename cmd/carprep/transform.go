package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ezoic/carprep/dataset"
	"github.com/ezoic/carprep/pkg/config"
	"github.com/ezoic/carprep/pkg/log"
	"github.com/ezoic/carprep/transformation"
)

func newTransformCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Fit the preprocessor on the training split and encode both splits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load(cmd, map[string]string{
				config.KeyTrainPath:    TrainFlag,
				config.KeyTestPath:     TestFlag,
				config.KeyArtifactPath: ArtifactFlag,
				config.KeyExportDir:    ExportDirFlag,
			})
			if err != nil {
				return err
			}
			if err := required(config.KeyTrainPath, cfg.TrainPath); err != nil {
				return err
			}
			if err := required(config.KeyTestPath, cfg.TestPath); err != nil {
				return err
			}
			return runTransform(cmd, cfg)
		},
	}

	cmd.Flags().String(TrainFlag, "", "training split CSV")
	cmd.Flags().String(TestFlag, "", "test split CSV")
	cmd.Flags().String(ArtifactFlag, config.DefaultArtifactPath, "where the fitted preprocessor is written")
	cmd.Flags().String(ExportDirFlag, "", "directory to write train.csv and test.csv to")
	return cmd
}

func runTransform(cmd *cobra.Command, cfg *config.Config) error {
	dt := transformation.New(transformation.Config{PreprocessorPath: cfg.ArtifactPath})
	train, test, path, err := dt.InitiateDataTransformation(cfg.TrainPath, cfg.TestPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	tr, tc := train.Dims()
	er, ec := test.Dims()
	fmt.Fprintf(out, "train: (%d, %d)\n", tr, tc)
	fmt.Fprintf(out, "test: (%d, %d)\n", er, ec)
	fmt.Fprintf(out, "preprocessor: %s\n", path)

	if cfg.ExportDir == "" {
		return nil
	}

	pre, err := transformation.LoadPreprocessor(path)
	if err != nil {
		return err
	}
	header := pre.FeatureNames()
	trainOut := filepath.Join(cfg.ExportDir, "train.csv")
	if err := dataset.WriteMatrixCSVFile(trainOut, train, header); err != nil {
		return err
	}
	testOut := filepath.Join(cfg.ExportDir, "test.csv")
	if err := dataset.WriteMatrixCSVFile(testOut, test, header); err != nil {
		return err
	}

	log.GetLoggerWithName("carprep").Info("Exported arrays",
		log.PathKey, cfg.ExportDir,
		log.FeaturesKey, len(header),
	)
	fmt.Fprintf(out, "exported: %s, %s\n", trainOut, testOut)
	return nil
}
