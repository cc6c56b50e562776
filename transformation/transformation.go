// Package transformation turns the car acceptability train and test CSV
// files into dense numeric arrays.
//
// The feature encoder is fitted on the training split only and reused for
// the test split. Each output row is the one-hot encoding of the six
// categorical columns followed by the class index of the acceptability
// label. The fitted encoder is persisted so the same encoding can be applied
// later with LoadPreprocessor.
package transformation

import (
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/carprep/dataset"
	"github.com/ezoic/carprep/pkg/errors"
	"github.com/ezoic/carprep/pkg/log"
	"github.com/ezoic/carprep/preprocessing"
)

// TargetColumn is the label column of both splits.
const TargetColumn = "acceptability"

// CategoricalColumns are the encoded feature columns, in output order.
var CategoricalColumns = []string{
	"buying",
	"maintenance",
	"doors",
	"person",
	"lug_boot",
	"safety",
}

const pipelineName = "cat_pipeline"

// Config holds the artifact location.
type Config struct {
	// PreprocessorPath is where the fitted preprocessor is written
	PreprocessorPath string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{PreprocessorPath: filepath.Join("artifact", "preprocessor.pkl")}
}

// Build returns the unfitted feature transformer: most-frequent imputation
// then one-hot encoding over CategoricalColumns. Other columns are dropped.
func Build() *preprocessing.ColumnTransformer {
	columns := make([]string, len(CategoricalColumns))
	copy(columns, CategoricalColumns)

	return preprocessing.NewColumnTransformer(preprocessing.ColumnSpec{
		Name:     pipelineName,
		Columns:  columns,
		Pipeline: preprocessing.NewCategoricalPipeline(),
	})
}

// DataTransformation runs the train/test transformation.
type DataTransformation struct {
	config Config
	logger log.Logger
}

// New creates a DataTransformation. An empty PreprocessorPath falls back to
// the default.
func New(cfg Config) *DataTransformation {
	if cfg.PreprocessorPath == "" {
		cfg.PreprocessorPath = DefaultConfig().PreprocessorPath
	}
	return &DataTransformation{
		config: cfg,
		logger: log.GetLoggerWithName("transformation").With(
			log.ComponentKey, "DataTransformation",
		),
	}
}

// Config returns the effective configuration.
func (dt *DataTransformation) Config() Config {
	return dt.config
}

const opInitiate = "DataTransformation.InitiateDataTransformation"

// InitiateDataTransformation loads both CSV files, fits the preprocessor on
// the training split, transforms both splits, appends the encoded target as
// the last column and persists the preprocessor.
//
// Returns:
//   - train, test: dense arrays, one row per input row
//   - path: where the preprocessor was written
//   - err: a *errors.TransformationError; no arrays are returned on failure
//
// All columns are checked before the artifact is written, so a table with a
// missing column leaves the artifact path untouched.
func (dt *DataTransformation) InitiateDataTransformation(trainPath, testPath string) (train, test *mat.Dense, path string, err error) {
	defer func() {
		if r := recover(); r != nil {
			train, test, path = nil, nil, ""
			err = dt.fail("recover", errors.Newf("panic: %v", r))
		}
	}()
	start := time.Now()

	trainTable, err := dataset.ReadCSV(trainPath)
	if err != nil {
		return nil, nil, "", dt.fail("load", err)
	}
	testTable, err := dataset.ReadCSV(testPath)
	if err != nil {
		return nil, nil, "", dt.fail("load", err)
	}
	dt.logger.Info("Read train and test data completed",
		log.OperationKey, log.OperationLoad,
		"train_rows", trainTable.NumRows(),
		"test_rows", testTable.NumRows(),
	)

	trainFeatures, trainTarget, err := splitTarget(trainTable)
	if err != nil {
		return nil, nil, "", dt.fail("load", err)
	}
	testFeatures, testTarget, err := splitTarget(testTable)
	if err != nil {
		return nil, nil, "", dt.fail("load", err)
	}

	dt.logger.Info("Obtaining preprocessing object", log.ColumnsKey, CategoricalColumns)
	pre := &Preprocessor{Features: Build(), Target: preprocessing.NewLabelEncoder()}

	dt.logger.Info("Applying preprocessing object on training and testing data")
	trainEncoded, err := pre.Features.FitTransform(trainFeatures)
	if err != nil {
		return nil, nil, "", dt.fail("fit", err)
	}
	if err := pre.Target.Fit(trainTarget); err != nil {
		return nil, nil, "", dt.fail("fit", err)
	}

	testEncoded, err := pre.Features.Transform(testFeatures)
	if err != nil {
		return nil, nil, "", dt.fail("transform", err)
	}

	train, err = appendTarget(preprocessing.Densify(trainEncoded), pre.Target, trainTarget)
	if err != nil {
		return nil, nil, "", dt.fail("transform", err)
	}
	test, err = appendTarget(preprocessing.Densify(testEncoded), pre.Target, testTarget)
	if err != nil {
		return nil, nil, "", dt.fail("transform", err)
	}

	path = dt.config.PreprocessorPath
	if err := pre.Save(path); err != nil {
		return nil, nil, "", dt.fail("save", err)
	}

	trainRows, cols := train.Dims()
	testRows, _ := test.Dims()
	dt.logger.Info("Saved preprocessing object",
		log.OperationKey, log.OperationSave,
		log.PathKey, path,
		"train_rows", trainRows,
		"test_rows", testRows,
		log.FeaturesKey, cols,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return train, test, path, nil
}

func (dt *DataTransformation) fail(step string, err error) error {
	wrapped := errors.NewTransformationError(opInitiate, step, err)
	dt.logger.Error("Data transformation failed", err, log.StepKey, step)
	return wrapped
}

// splitTarget separates the feature table from the target labels.
func splitTarget(t *dataset.Table) (*dataset.Table, []string, error) {
	target, err := t.Column(TargetColumn)
	if err != nil {
		return nil, nil, err
	}
	features, err := t.Drop(TargetColumn)
	if err != nil {
		return nil, nil, err
	}
	return features, target, nil
}

// appendTarget returns [features | encoded labels].
func appendTarget(features *mat.Dense, le *preprocessing.LabelEncoder, labels []string) (*mat.Dense, error) {
	r, c := features.Dims()
	if len(labels) != r {
		return nil, errors.NewDimensionError("appendTarget", r, len(labels), 0)
	}
	encoded, err := le.Transform(labels)
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(r, c+1, nil)
	out.Slice(0, r, 0, c).(*mat.Dense).Copy(features)
	out.SetCol(c, encoded)
	return out, nil
}

// SplitFeaturesTarget splits an array produced by InitiateDataTransformation
// into its feature block and its target column.
func SplitFeaturesTarget(arr *mat.Dense) (mat.Matrix, *mat.VecDense, error) {
	r, c := arr.Dims()
	if c < 2 {
		return nil, nil, errors.NewDimensionError("SplitFeaturesTarget", 2, c, 1)
	}
	y := mat.NewVecDense(r, mat.Col(nil, c-1, arr))
	return arr.Slice(0, r, 0, c-1), y, nil
}
