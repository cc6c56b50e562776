package preprocessing

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/carprep/core/model"
	carpErrors "github.com/ezoic/carprep/pkg/errors"
	"github.com/ezoic/carprep/pkg/log"
)

// DefaultSparseThreshold is the density under which ColumnTransformer keeps
// its output sparse.
const DefaultSparseThreshold = 0.3

// ColumnSelector is the table access ColumnTransformer needs.
// *dataset.Table satisfies it.
type ColumnSelector interface {
	Select(names ...string) ([][]string, error)
	NumRows() int
}

// ColumnSpec binds a pipeline to the columns it encodes.
type ColumnSpec struct {
	Name     string
	Columns  []string
	Pipeline *CategoricalPipeline
}

// ColumnTransformer applies one pipeline per column group and concatenates
// the encoded blocks in declared order. Columns not named by any spec are
// dropped.
type ColumnTransformer struct {
	model.BaseEstimator

	Transformers []ColumnSpec

	// SparseThreshold: when the overall density of the output is below this
	// value the output is a *SparseMatrix, otherwise a *mat.Dense. Zero
	// always yields dense output.
	SparseThreshold float64

	// NOutputs is the number of output columns after Fit
	NOutputs int

	logger log.Logger
}

// NewColumnTransformer creates an unfitted ColumnTransformer.
//
// Example:
//
//	ct := preprocessing.NewColumnTransformer(preprocessing.ColumnSpec{
//		Name:     "cat_pipeline",
//		Columns:  []string{"buying", "safety"},
//		Pipeline: preprocessing.NewCategoricalPipeline(),
//	})
//	Xt, err := ct.FitTransform(table)
func NewColumnTransformer(specs ...ColumnSpec) *ColumnTransformer {
	ct := &ColumnTransformer{
		Transformers:    specs,
		SparseThreshold: DefaultSparseThreshold,
	}
	ct.ModelType = "ColumnTransformer"
	ct.Version = "1.0"
	ct.initLogger()
	return ct
}

func (ct *ColumnTransformer) initLogger() {
	ct.logger = log.GetLoggerWithName("preprocessing").With(
		log.ComponentKey, "ColumnTransformer",
	)
}

// selectAll pulls every spec's columns before any learning happens, so a
// missing column fails the whole call.
func (ct *ColumnTransformer) selectAll(op string, X ColumnSelector) ([][][]string, error) {
	if len(ct.Transformers) == 0 {
		return nil, carpErrors.NewValidationError("transformers", "at least one column spec is required", 0)
	}
	if X.NumRows() == 0 {
		return nil, carpErrors.NewModelError(op, "empty data", carpErrors.ErrEmptyData)
	}

	blocks := make([][][]string, len(ct.Transformers))
	for k, spec := range ct.Transformers {
		if len(spec.Columns) == 0 || spec.Pipeline == nil {
			return nil, carpErrors.NewValidationError("column spec", "columns and pipeline are required", spec.Name)
		}
		block, err := X.Select(spec.Columns...)
		if err != nil {
			return nil, err
		}
		blocks[k] = block
	}
	return blocks, nil
}

// Fit learns every pipeline from X. A ColumnTransformer is fitted once;
// fitting it again is an error.
func (ct *ColumnTransformer) Fit(X ColumnSelector) (err error) {
	defer carpErrors.Recover(&err, "ColumnTransformer.Fit")
	if ct.IsFitted() {
		return carpErrors.NewValueError("ColumnTransformer.Fit", "transformer is already fitted")
	}
	if ct.logger == nil {
		ct.initLogger()
	}

	start := time.Now()
	blocks, err := ct.selectAll("ColumnTransformer.Fit", X)
	if err != nil {
		return err
	}

	nOutputs := 0
	for k, spec := range ct.Transformers {
		if err := spec.Pipeline.Fit(blocks[k]); err != nil {
			return carpErrors.Wrapf(err, "failed to fit '%s'", spec.Name)
		}
		nOutputs += spec.Pipeline.NOutputs()
	}

	ct.NOutputs = nOutputs
	ct.SetFitted()

	ct.logger.Debug("Fit completed",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhasePreprocessing,
		log.SamplesKey, X.NumRows(),
		log.OutputsKey, nOutputs,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Transform encodes X with the learned state. The result is a
// *SparseMatrix or a *mat.Dense depending on SparseThreshold; use Densify
// when dense storage is required.
func (ct *ColumnTransformer) Transform(X ColumnSelector) (_ mat.Matrix, err error) {
	defer carpErrors.Recover(&err, "ColumnTransformer.Transform")
	if !ct.IsFitted() {
		return nil, carpErrors.NewNotFittedError("ColumnTransformer", "Transform")
	}

	blocks, err := ct.selectAll("ColumnTransformer.Transform", X)
	if err != nil {
		return nil, err
	}

	encoded := make([]*SparseMatrix, len(ct.Transformers))
	for k, spec := range ct.Transformers {
		out, err := spec.Pipeline.Transform(blocks[k])
		if err != nil {
			return nil, carpErrors.Wrapf(err, "failed to transform '%s'", spec.Name)
		}
		encoded[k] = out
	}

	stacked, err := HStack(encoded...)
	if err != nil {
		return nil, err
	}

	if stacked.Density() < ct.SparseThreshold {
		return stacked, nil
	}
	return stacked.ToDense(), nil
}

// FitTransform fits on X and encodes X.
func (ct *ColumnTransformer) FitTransform(X ColumnSelector) (mat.Matrix, error) {
	if err := ct.Fit(X); err != nil {
		return nil, err
	}
	return ct.Transform(X)
}

// GetFeatureNamesOut returns output column names as
// "<spec name>__<column>_<category>", or nil before Fit.
func (ct *ColumnTransformer) GetFeatureNamesOut() []string {
	if !ct.IsFitted() {
		return nil
	}
	var names []string
	for _, spec := range ct.Transformers {
		for _, name := range spec.Pipeline.Encoder.GetFeatureNamesOut(spec.Columns) {
			names = append(names, spec.Name+"__"+name)
		}
	}
	return names
}
