package preprocessing

import (
	"fmt"
	"math"
	"sort"

	"github.com/ezoic/carprep/core/model"
	"github.com/ezoic/carprep/dataset"
	carpErrors "github.com/ezoic/carprep/pkg/errors"
)

// LabelEncoder maps class labels to indices 0..n-1 in sorted label order.
type LabelEncoder struct {
	model.BaseEstimator

	// Classes holds the sorted class labels
	Classes []string

	classToIdx map[string]int
}

// NewLabelEncoder creates an unfitted LabelEncoder.
func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{}
}

// Fit learns the class labels. Missing labels are rejected.
func (le *LabelEncoder) Fit(labels []string) (err error) {
	defer carpErrors.Recover(&err, "LabelEncoder.Fit")
	if len(labels) == 0 {
		return carpErrors.NewModelError("LabelEncoder.Fit", "empty labels", carpErrors.ErrEmptyData)
	}

	seen := make(map[string]bool)
	for i, label := range labels {
		if dataset.IsMissing(label) {
			return carpErrors.NewValueError("LabelEncoder.Fit", fmt.Sprintf("missing label at row %d", i))
		}
		seen[label] = true
	}

	classes := make([]string, 0, len(seen))
	for label := range seen {
		classes = append(classes, label)
	}
	sort.Strings(classes)

	le.setClasses(classes)
	le.SetFitted()
	return nil
}

func (le *LabelEncoder) setClasses(classes []string) {
	le.Classes = classes
	le.classToIdx = make(map[string]int, len(classes))
	for i, c := range classes {
		le.classToIdx[c] = i
	}
}

// Transform maps labels to class indices. Unseen labels are an error.
func (le *LabelEncoder) Transform(labels []string) (_ []float64, err error) {
	defer carpErrors.Recover(&err, "LabelEncoder.Transform")
	if !le.IsFitted() {
		return nil, carpErrors.NewNotFittedError("LabelEncoder", "Transform")
	}

	out := make([]float64, len(labels))
	for i, label := range labels {
		idx, ok := le.classToIdx[label]
		if !ok {
			return nil, carpErrors.NewValueError("LabelEncoder.Transform",
				fmt.Sprintf("label %q at row %d was not seen during fit", label, i))
		}
		out[i] = float64(idx)
	}
	return out, nil
}

// FitTransform fits on labels and encodes them.
func (le *LabelEncoder) FitTransform(labels []string) ([]float64, error) {
	if err := le.Fit(labels); err != nil {
		return nil, err
	}
	return le.Transform(labels)
}

// InverseTransform maps class indices back to labels.
func (le *LabelEncoder) InverseTransform(indices []float64) (_ []string, err error) {
	defer carpErrors.Recover(&err, "LabelEncoder.InverseTransform")
	if !le.IsFitted() {
		return nil, carpErrors.NewNotFittedError("LabelEncoder", "InverseTransform")
	}

	out := make([]string, len(indices))
	for i, v := range indices {
		k := int(v)
		if float64(k) != v || math.IsNaN(v) || k < 0 || k >= len(le.Classes) {
			return nil, carpErrors.NewValueError("LabelEncoder.InverseTransform",
				fmt.Sprintf("invalid class index %v at row %d", v, i))
		}
		out[i] = le.Classes[k]
	}
	return out, nil
}
