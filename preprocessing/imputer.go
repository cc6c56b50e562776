package preprocessing

import (
	"fmt"
	"sort"

	"github.com/ezoic/carprep/core/model"
	"github.com/ezoic/carprep/dataset"
	carpErrors "github.com/ezoic/carprep/pkg/errors"
)

// Imputation strategies.
const (
	StrategyMostFrequent = "most_frequent"
	StrategyConstant     = "constant"
)

// SimpleImputer fills missing categorical values with a per-column
// statistic learned at fit time. A value is missing when
// dataset.IsMissing reports so.
type SimpleImputer struct {
	model.BaseEstimator

	// Strategy is "most_frequent" or "constant"
	Strategy string

	// FillValue is used by the "constant" strategy
	FillValue string

	// Statistics holds the fill value of each column after Fit
	Statistics []string
}

// NewSimpleImputer creates an imputer using strategy. fillValue is only
// read by the "constant" strategy.
func NewSimpleImputer(strategy, fillValue string) *SimpleImputer {
	return &SimpleImputer{Strategy: strategy, FillValue: fillValue}
}

// NewMostFrequentImputer creates an imputer filling with the most frequent
// observed value of each column.
func NewMostFrequentImputer() *SimpleImputer {
	return NewSimpleImputer(StrategyMostFrequent, "")
}

// Fit learns the fill value of each column. Under "most_frequent", ties
// resolve to the lexically smallest value, and a column without any
// observed value is an error.
func (im *SimpleImputer) Fit(data [][]string) (err error) {
	defer carpErrors.Recover(&err, "SimpleImputer.Fit")
	if len(data) == 0 || len(data[0]) == 0 {
		return carpErrors.NewModelError("SimpleImputer.Fit", "empty data", carpErrors.ErrEmptyData)
	}

	nFeatures := len(data[0])
	for _, row := range data {
		if len(row) != nFeatures {
			return carpErrors.NewDimensionError("SimpleImputer.Fit", nFeatures, len(row), 1)
		}
	}

	stats := make([]string, nFeatures)
	switch im.Strategy {
	case StrategyConstant:
		if dataset.IsMissing(im.FillValue) {
			return carpErrors.NewValidationError("fill_value", "must not be a missing marker", im.FillValue)
		}
		for j := range stats {
			stats[j] = im.FillValue
		}
	case StrategyMostFrequent:
		for j := 0; j < nFeatures; j++ {
			mode, ok := mostFrequent(data, j)
			if !ok {
				return carpErrors.NewValueError("SimpleImputer.Fit",
					fmt.Sprintf("column %d has no observed values", j))
			}
			stats[j] = mode
		}
	default:
		return carpErrors.NewValidationError("strategy", "must be \"most_frequent\" or \"constant\"", im.Strategy)
	}

	im.Statistics = stats
	im.SetFitted()
	return nil
}

func mostFrequent(data [][]string, j int) (string, bool) {
	counts := make(map[string]int)
	for _, row := range data {
		if v := row[j]; !dataset.IsMissing(v) {
			counts[v]++
		}
	}
	if len(counts) == 0 {
		return "", false
	}

	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Strings(values)

	best := values[0]
	for _, v := range values[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best, true
}

// TransformStrings returns a copy of data with missing cells replaced by
// the learned statistics.
func (im *SimpleImputer) TransformStrings(data [][]string) (_ [][]string, err error) {
	defer carpErrors.Recover(&err, "SimpleImputer.Transform")
	if !im.IsFitted() {
		return nil, carpErrors.NewNotFittedError("SimpleImputer", "Transform")
	}

	out := make([][]string, len(data))
	for i, row := range data {
		if len(row) != len(im.Statistics) {
			return nil, carpErrors.NewDimensionError("SimpleImputer.Transform", len(im.Statistics), len(row), 1)
		}
		filled := make([]string, len(row))
		for j, v := range row {
			if dataset.IsMissing(v) {
				filled[j] = im.Statistics[j]
			} else {
				filled[j] = v
			}
		}
		out[i] = filled
	}
	return out, nil
}
