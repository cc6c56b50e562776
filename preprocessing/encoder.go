package preprocessing

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/carprep/core/model"
	carpErrors "github.com/ezoic/carprep/pkg/errors"
)

// Unknown category policies.
const (
	HandleUnknownIgnore = "ignore"
	HandleUnknownError  = "error"
)

// OneHotEncoder encodes categorical string features as 0/1 indicator columns.
type OneHotEncoder struct {
	model.BaseEstimator

	// Categories holds the sorted categories of each feature
	Categories [][]string

	// CategoryToIdx maps category to position for each feature
	CategoryToIdx []map[string]int

	// NFeatures is the number of input features
	NFeatures int

	// NOutputs is the number of output columns (sum of all categories)
	NOutputs int

	// HandleUnknown decides what Transform does with a category not seen at
	// fit: "ignore" leaves its block all zero, "error" fails.
	HandleUnknown string
}

// NewOneHotEncoder creates an encoder that ignores unknown categories.
//
// Example:
//
//	encoder := preprocessing.NewOneHotEncoder()
//	err := encoder.Fit(data)
//	encoded, err := encoder.Transform(data)
func NewOneHotEncoder() *OneHotEncoder {
	return &OneHotEncoder{HandleUnknown: HandleUnknownIgnore}
}

// Fit learns the category vocabulary of each feature.
//
// Parameters:
//   - data: training data (n_samples × n_features strings)
//
// Returns:
//   - error: ErrEmptyData for empty input, DimensionError for ragged rows
func (e *OneHotEncoder) Fit(data [][]string) (err error) {
	defer carpErrors.Recover(&err, "OneHotEncoder.Fit")
	if len(data) == 0 {
		return carpErrors.NewModelError("OneHotEncoder.Fit", "empty data", carpErrors.ErrEmptyData)
	}

	if len(data[0]) == 0 {
		return carpErrors.NewModelError("OneHotEncoder.Fit", "empty features", carpErrors.ErrEmptyData)
	}

	if e.HandleUnknown != HandleUnknownIgnore && e.HandleUnknown != HandleUnknownError {
		return carpErrors.NewValidationError("handle_unknown", "must be \"ignore\" or \"error\"", e.HandleUnknown)
	}

	nFeatures := len(data[0])
	for i, row := range data {
		if len(row) != nFeatures {
			return carpErrors.NewDimensionError(fmt.Sprintf("OneHotEncoder.Fit (row %d)", i), nFeatures, len(row), 1)
		}
	}

	categories := make([][]string, nFeatures)
	for j := 0; j < nFeatures; j++ {
		seen := make(map[string]bool)
		for _, row := range data {
			seen[row[j]] = true
		}

		cats := make([]string, 0, len(seen))
		for category := range seen {
			cats = append(cats, category)
		}
		sort.Strings(cats)
		categories[j] = cats
	}

	e.setCategories(categories)
	e.SetFitted()
	return nil
}

func (e *OneHotEncoder) setCategories(categories [][]string) {
	e.NFeatures = len(categories)
	e.Categories = categories
	e.CategoryToIdx = make([]map[string]int, len(categories))
	e.NOutputs = 0
	for j, cats := range categories {
		idx := make(map[string]int, len(cats))
		for k, category := range cats {
			idx[category] = k
		}
		e.CategoryToIdx[j] = idx
		e.NOutputs += len(cats)
	}
}

// TransformSparse encodes data with the learned vocabulary as a CSR matrix.
// Every row stores at most one non-zero per feature.
func (e *OneHotEncoder) TransformSparse(data [][]string) (_ *SparseMatrix, err error) {
	defer carpErrors.Recover(&err, "OneHotEncoder.TransformSparse")
	if !e.IsFitted() {
		return nil, carpErrors.NewNotFittedError("OneHotEncoder", "Transform")
	}

	nSamples := len(data)
	indptr := make([]int, 0, nSamples+1)
	indices := make([]int, 0, nSamples*e.NFeatures)
	indptr = append(indptr, 0)

	for i, row := range data {
		if len(row) != e.NFeatures {
			return nil, carpErrors.NewDimensionError("OneHotEncoder.Transform", e.NFeatures, len(row), 1)
		}

		offset := 0
		for j, category := range row {
			if idx, ok := e.CategoryToIdx[j][category]; ok {
				indices = append(indices, offset+idx)
			} else if e.HandleUnknown == HandleUnknownError {
				return nil, carpErrors.NewValueError("OneHotEncoder.Transform",
					fmt.Sprintf("unknown category %q in feature %d at row %d", category, j, i))
			}
			offset += len(e.Categories[j])
		}
		indptr = append(indptr, len(indices))
	}

	return newBinaryCSR(nSamples, e.NOutputs, indptr, indices), nil
}

// Transform encodes data with the learned vocabulary.
//
// Unknown categories leave their block all zero under HandleUnknown
// "ignore".
//
// Returns:
//   - mat.Matrix: dense (n_samples × NOutputs) indicator matrix
//   - error: NotFittedError, DimensionError, or ErrEmptyData for no rows
func (e *OneHotEncoder) Transform(data [][]string) (_ mat.Matrix, err error) {
	defer carpErrors.Recover(&err, "OneHotEncoder.Transform")
	if !e.IsFitted() {
		return nil, carpErrors.NewNotFittedError("OneHotEncoder", "Transform")
	}
	if len(data) == 0 {
		return nil, carpErrors.NewModelError("OneHotEncoder.Transform", "empty data", carpErrors.ErrEmptyData)
	}

	sparse, err := e.TransformSparse(data)
	if err != nil {
		return nil, err
	}
	return sparse.ToDense(), nil
}

// FitTransform fits on data and encodes the same data.
func (e *OneHotEncoder) FitTransform(data [][]string) (_ mat.Matrix, err error) {
	defer carpErrors.Recover(&err, "OneHotEncoder.FitTransform")
	if err := e.Fit(data); err != nil {
		return nil, err
	}
	return e.Transform(data)
}

// GetFeatureNamesOut returns the names of the output columns.
//
// Parameters:
//   - inputFeatures: input feature names ("x0", "x1", ... when nil)
//
// Example:
//   - input names ["buying", "safety"]
//   - output: ["buying_high", "buying_low", "safety_high", "safety_med"]
func (e *OneHotEncoder) GetFeatureNamesOut(inputFeatures []string) []string {
	if !e.IsFitted() {
		return nil
	}

	var outputFeatures []string
	for i, categories := range e.Categories {
		inputFeatureName := fmt.Sprintf("x%d", i)
		if inputFeatures != nil && i < len(inputFeatures) {
			inputFeatureName = inputFeatures[i]
		}
		for _, category := range categories {
			outputFeatures = append(outputFeatures, fmt.Sprintf("%s_%s", inputFeatureName, category))
		}
	}

	return outputFeatures
}
