package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ezoic/carprep/pkg/config"
	"github.com/ezoic/carprep/pkg/errors"
	"github.com/ezoic/carprep/pkg/log"
)

// Global flags
const (
	ConfigFlag   = "config"
	LogLevelFlag = "log-level"
)

// Command flags
const (
	TrainFlag       = "train"
	TestFlag        = "test"
	ArtifactFlag    = "artifact"
	ExportDirFlag   = "export-dir"
	PredictionsFlag = "predictions"
	PlotFlag        = "plot"
)

type app struct {
	v       *viper.Viper
	cfgFile string
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:           "carprep",
		Short:         "Car acceptability preprocessing",
		Long:          "Fits a categorical preprocessor on the training split, encodes both splits and persists the preprocessor.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, ConfigFlag, "",
		"config file (default is $HOME/.carprep.yaml, then ./.carprep.yaml)")
	root.PersistentFlags().String(LogLevelFlag, config.DefaultLogLevel,
		"log level: debug, info, warn, error or disabled")

	root.AddCommand(newTransformCmd(a), newInspectCmd(a), newEvaluateCmd(a))
	return root
}

// load binds the command's flags to their keys, reads the config file and
// returns the resolved configuration. It also configures the global logger.
func (a *app) load(cmd *cobra.Command, bindings map[string]string) (*config.Config, error) {
	bindings[config.KeyLogLevel] = LogLevelFlag
	for key, name := range bindings {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			return nil, errors.Newf("carprep: unknown flag %q", name)
		}
		if err := a.v.BindPFlag(key, flag); err != nil {
			return nil, errors.Wrapf(err, "carprep: failed to bind flag %q", name)
		}
	}

	if err := config.ReadInConfig(a.v, a.cfgFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return nil, err
	}

	log.SetupLogger(cfg.LogLevel)
	if used := a.v.ConfigFileUsed(); used != "" {
		log.GetLoggerWithName("carprep").Debug("Using config file", log.PathKey, used)
	}
	return cfg, nil
}

func required(name, value string) error {
	if value == "" {
		return errors.NewValidationError(name, "is required", value)
	}
	return nil
}
