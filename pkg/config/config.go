// Package config loads carprep settings from defaults, an optional YAML
// file, CARPREP_* environment variables and bound command line flags, in
// increasing order of precedence.
package config

import (
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ezoic/carprep/pkg/errors"
	"github.com/ezoic/carprep/pkg/log"
)

// Configuration keys.
const (
	KeyTrainPath    = "train_path"
	KeyTestPath     = "test_path"
	KeyArtifactPath = "artifact_path"
	KeyExportDir    = "export_dir"
	KeyPlotPath     = "plot_path"
	KeyLogLevel     = "log_level"
)

// EnvPrefix prefixes every environment variable, e.g. CARPREP_ARTIFACT_PATH.
const EnvPrefix = "CARPREP"

// FileName is the config file searched for in $HOME and the working
// directory, without extension.
const FileName = ".carprep"

// Defaults.
var (
	DefaultArtifactPath = filepath.Join("artifact", "preprocessor.pkl")
	DefaultLogLevel     = "info"
)

// Config holds the resolved settings.
type Config struct {
	TrainPath    string `mapstructure:"train_path"`
	TestPath     string `mapstructure:"test_path"`
	ArtifactPath string `mapstructure:"artifact_path"`
	ExportDir    string `mapstructure:"export_dir"`
	PlotPath     string `mapstructure:"plot_path"`
	LogLevel     string `mapstructure:"log_level"`
}

// New returns a viper instance with defaults and environment binding set.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyTrainPath, "")
	v.SetDefault(KeyTestPath, "")
	v.SetDefault(KeyArtifactPath, DefaultArtifactPath)
	v.SetDefault(KeyExportDir, "")
	v.SetDefault(KeyPlotPath, "")
	v.SetDefault(KeyLogLevel, DefaultLogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadInConfig reads cfgFile into v. With an empty cfgFile, .carprep.yaml is
// looked up in the home directory and then in the working directory; not
// finding one is not an error. An explicit cfgFile must exist.
func ReadInConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.NewIOError("config.ReadInConfig", cfgFile, err)
		}
		return nil
	}

	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errors.NewIOError("config.ReadInConfig", v.ConfigFileUsed(), err)
	}
	return nil
}

// Load decodes v into a validated Config. A leading ~ in any path is
// expanded to the home directory.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.NewSerializationError("config.Load", err)
	}

	for _, p := range []*string{&cfg.TrainPath, &cfg.TestPath, &cfg.ArtifactPath, &cfg.ExportDir, &cfg.PlotPath} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return nil, errors.NewValidationError("path", err.Error(), *p)
		}
		*p = expanded
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ArtifactPath) == "" {
		return errors.NewValidationError(KeyArtifactPath, "must not be empty", c.ArtifactPath)
	}
	if !log.IsValidLevel(c.LogLevel) {
		return errors.NewValidationError(KeyLogLevel, "unknown log level", c.LogLevel)
	}
	return nil
}
