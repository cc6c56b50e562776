package preprocessing

import (
	"fmt"

	"github.com/ezoic/carprep/core/model"
	carpErrors "github.com/ezoic/carprep/pkg/errors"
)

// ColumnTransformerState is the learned state of a fitted ColumnTransformer.
// Only learned values are kept: per column fill values and per column
// categories in output order.
type ColumnTransformerState struct {
	SparseThreshold float64           `json:"sparse_threshold"`
	Transformers    []ColumnSpecState `json:"transformers"`
}

// ColumnSpecState is the learned state of one column group.
type ColumnSpecState struct {
	Name    string       `json:"name"`
	Columns []string     `json:"columns"`
	Steps   []StepState  `json:"steps"`
	Encoder EncoderState `json:"encoder"`
}

// StepState is the learned state of one pipeline step.
type StepState struct {
	Name    string        `json:"name"`
	Imputer *ImputerState `json:"imputer,omitempty"`
}

// ImputerState is the learned state of a SimpleImputer.
type ImputerState struct {
	Strategy   string   `json:"strategy"`
	FillValue  string   `json:"fill_value,omitempty"`
	Statistics []string `json:"statistics"`
}

// EncoderState is the learned state of a OneHotEncoder.
type EncoderState struct {
	HandleUnknown string     `json:"handle_unknown"`
	Categories    [][]string `json:"categories"`
}

// LabelEncoderState is the learned state of a LabelEncoder.
type LabelEncoderState struct {
	Classes []string `json:"classes"`
}

// ExportState returns the learned state of a fitted transformer.
func (ct *ColumnTransformer) ExportState() (*ColumnTransformerState, error) {
	if !ct.IsFitted() {
		return nil, carpErrors.NewNotFittedError("ColumnTransformer", "ExportState")
	}

	state := &ColumnTransformerState{SparseThreshold: ct.SparseThreshold}
	for _, spec := range ct.Transformers {
		specState := ColumnSpecState{
			Name:    spec.Name,
			Columns: append([]string(nil), spec.Columns...),
			Encoder: EncoderState{
				HandleUnknown: spec.Pipeline.Encoder.HandleUnknown,
				Categories:    spec.Pipeline.Encoder.Categories,
			},
		}
		for _, step := range spec.Pipeline.Steps {
			imputer, ok := step.Transformer.(*SimpleImputer)
			if !ok {
				return nil, carpErrors.NewModelError("ColumnTransformer.ExportState",
					fmt.Sprintf("step '%s' of type %T cannot be exported", step.Name, step.Transformer),
					carpErrors.ErrNotImplemented)
			}
			specState.Steps = append(specState.Steps, StepState{
				Name: step.Name,
				Imputer: &ImputerState{
					Strategy:   imputer.Strategy,
					FillValue:  imputer.FillValue,
					Statistics: imputer.Statistics,
				},
			})
		}
		state.Transformers = append(state.Transformers, specState)
	}
	return state, nil
}

// RestoreColumnTransformer rebuilds a fitted ColumnTransformer from state.
func RestoreColumnTransformer(state *ColumnTransformerState) (*ColumnTransformer, error) {
	if state == nil || len(state.Transformers) == 0 {
		return nil, carpErrors.NewValueError("RestoreColumnTransformer", "state has no transformers")
	}

	specs := make([]ColumnSpec, 0, len(state.Transformers))
	nOutputs := 0
	for _, s := range state.Transformers {
		if len(s.Encoder.Categories) != len(s.Columns) {
			return nil, carpErrors.NewDimensionError("RestoreColumnTransformer", len(s.Columns), len(s.Encoder.Categories), 1)
		}

		pipeline := &CategoricalPipeline{}
		for _, st := range s.Steps {
			if st.Imputer == nil {
				return nil, carpErrors.NewValueError("RestoreColumnTransformer",
					fmt.Sprintf("step '%s' has no state", st.Name))
			}
			if len(st.Imputer.Statistics) != len(s.Columns) {
				return nil, carpErrors.NewDimensionError("RestoreColumnTransformer", len(s.Columns), len(st.Imputer.Statistics), 1)
			}
			imputer := NewSimpleImputer(st.Imputer.Strategy, st.Imputer.FillValue)
			imputer.Statistics = st.Imputer.Statistics
			imputer.SetFitted()
			pipeline.Steps = append(pipeline.Steps, Step{Name: st.Name, Transformer: imputer})
		}

		encoder := &OneHotEncoder{HandleUnknown: s.Encoder.HandleUnknown}
		if encoder.HandleUnknown == "" {
			encoder.HandleUnknown = HandleUnknownIgnore
		}
		encoder.setCategories(s.Encoder.Categories)
		encoder.SetFitted()
		pipeline.Encoder = encoder
		nOutputs += encoder.NOutputs

		specs = append(specs, ColumnSpec{Name: s.Name, Columns: s.Columns, Pipeline: pipeline})
	}

	ct := NewColumnTransformer(specs...)
	ct.SparseThreshold = state.SparseThreshold
	ct.NOutputs = nOutputs
	ct.State = model.Fitted
	return ct, nil
}

// ExportState returns the learned classes.
func (le *LabelEncoder) ExportState() (*LabelEncoderState, error) {
	if !le.IsFitted() {
		return nil, carpErrors.NewNotFittedError("LabelEncoder", "ExportState")
	}
	return &LabelEncoderState{Classes: le.Classes}, nil
}

// RestoreLabelEncoder rebuilds a fitted LabelEncoder from state.
func RestoreLabelEncoder(state *LabelEncoderState) (*LabelEncoder, error) {
	if state == nil || len(state.Classes) == 0 {
		return nil, carpErrors.NewValueError("RestoreLabelEncoder", "state has no classes")
	}
	le := NewLabelEncoder()
	le.setClasses(state.Classes)
	le.SetFitted()
	return le, nil
}
