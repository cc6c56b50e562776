package transformation

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/carprep/core/model"
	"github.com/ezoic/carprep/dataset"
	"github.com/ezoic/carprep/pkg/errors"
	"github.com/ezoic/carprep/preprocessing"
)

// PreprocessorKind tags persisted preprocessors.
const PreprocessorKind = "Preprocessor"

// Preprocessor is the fitted object written to the artifact path.
type Preprocessor struct {
	Features *preprocessing.ColumnTransformer
	Target   *preprocessing.LabelEncoder
}

// PreprocessorState is the persisted form of a Preprocessor.
type PreprocessorState struct {
	Features *preprocessing.ColumnTransformerState `json:"features"`
	Target   *preprocessing.LabelEncoderState      `json:"target"`
}

// ExportState returns the learned state of both encoders.
func (p *Preprocessor) ExportState() (*PreprocessorState, error) {
	if p.Features == nil || p.Target == nil {
		return nil, errors.NewNotFittedError("Preprocessor", "ExportState")
	}
	features, err := p.Features.ExportState()
	if err != nil {
		return nil, err
	}
	target, err := p.Target.ExportState()
	if err != nil {
		return nil, err
	}
	return &PreprocessorState{Features: features, Target: target}, nil
}

// Save persists the preprocessor to path.
func (p *Preprocessor) Save(path string) error {
	state, err := p.ExportState()
	if err != nil {
		return err
	}
	return model.SaveObject(path, PreprocessorKind, state)
}

// LoadPreprocessor reads a preprocessor written by Save.
func LoadPreprocessor(path string) (*Preprocessor, error) {
	var state PreprocessorState
	if err := model.LoadObject(path, PreprocessorKind, &state); err != nil {
		return nil, err
	}
	return RestorePreprocessor(&state)
}

// RestorePreprocessor rebuilds a fitted preprocessor from its state.
func RestorePreprocessor(state *PreprocessorState) (*Preprocessor, error) {
	if state == nil || state.Features == nil || state.Target == nil {
		return nil, errors.NewValueError("RestorePreprocessor", "incomplete preprocessor state")
	}
	features, err := preprocessing.RestoreColumnTransformer(state.Features)
	if err != nil {
		return nil, err
	}
	target, err := preprocessing.RestoreLabelEncoder(state.Target)
	if err != nil {
		return nil, err
	}
	return &Preprocessor{Features: features, Target: target}, nil
}

// Transform encodes the feature columns of table as a dense block. The
// target column, if present, is ignored.
func (p *Preprocessor) Transform(table preprocessing.ColumnSelector) (*mat.Dense, error) {
	out, err := p.Features.Transform(table)
	if err != nil {
		return nil, err
	}
	return preprocessing.Densify(out), nil
}

// TransformWithTarget encodes table into [features | target] in the layout
// returned by InitiateDataTransformation.
func (p *Preprocessor) TransformWithTarget(table *dataset.Table) (*mat.Dense, error) {
	features, labels, err := splitTarget(table)
	if err != nil {
		return nil, err
	}
	encoded, err := p.Transform(features)
	if err != nil {
		return nil, err
	}
	return appendTarget(encoded, p.Target, labels)
}

// FeatureNames returns the output column names, target last.
func (p *Preprocessor) FeatureNames() []string {
	return append(p.Features.GetFeatureNamesOut(), TargetColumn)
}
