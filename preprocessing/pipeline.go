package preprocessing

import (
	"fmt"

	"github.com/ezoic/carprep/pkg/errors"
)

// StringTransformer is a step that rewrites categorical values in place of
// encoding them, such as an imputer.
type StringTransformer interface {
	Fit(data [][]string) error
	TransformStrings(data [][]string) ([][]string, error)
	IsFitted() bool
}

// Step is one named stage of a CategoricalPipeline.
type Step struct {
	Name        string
	Transformer StringTransformer
}

// CategoricalPipeline runs its steps in order, then one-hot encodes the
// result. Each step is fitted on the output of the previous one.
type CategoricalPipeline struct {
	Steps   []Step
	Encoder *OneHotEncoder
}

// NewCategoricalPipeline builds the impute-then-encode pipeline: missing
// values are filled with the most frequent category, then one-hot encoded
// with unknown categories ignored.
func NewCategoricalPipeline() *CategoricalPipeline {
	return &CategoricalPipeline{
		Steps: []Step{
			{Name: "imputer", Transformer: NewMostFrequentImputer()},
		},
		Encoder: NewOneHotEncoder(),
	}
}

// Fit fits every step and the encoder.
func (p *CategoricalPipeline) Fit(data [][]string) error {
	if p.Encoder == nil {
		return errors.NewValidationError("encoder", "pipeline has no encoder", nil)
	}

	Xt := data
	var err error
	for _, step := range p.Steps {
		if err = step.Transformer.Fit(Xt); err != nil {
			return errors.Wrap(err, fmt.Sprintf("failed to fit step '%s'", step.Name))
		}
		Xt, err = step.Transformer.TransformStrings(Xt)
		if err != nil {
			return errors.Wrap(err, fmt.Sprintf("failed to transform at step '%s'", step.Name))
		}
	}

	if err = p.Encoder.Fit(Xt); err != nil {
		return errors.Wrap(err, "failed to fit encoder")
	}
	return nil
}

// Transform applies the fitted steps and encoder.
func (p *CategoricalPipeline) Transform(data [][]string) (*SparseMatrix, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("CategoricalPipeline", "Transform")
	}

	Xt := data
	var err error
	for _, step := range p.Steps {
		Xt, err = step.Transformer.TransformStrings(Xt)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("failed to transform at step '%s'", step.Name))
		}
	}

	out, err := p.Encoder.TransformSparse(Xt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode")
	}
	return out, nil
}

// IsFitted reports whether every step and the encoder are fitted.
func (p *CategoricalPipeline) IsFitted() bool {
	if p.Encoder == nil || !p.Encoder.IsFitted() {
		return false
	}
	for _, step := range p.Steps {
		if !step.Transformer.IsFitted() {
			return false
		}
	}
	return true
}

// NOutputs returns the number of encoded columns, 0 before Fit.
func (p *CategoricalPipeline) NOutputs() int {
	if p.Encoder == nil {
		return 0
	}
	return p.Encoder.NOutputs
}
