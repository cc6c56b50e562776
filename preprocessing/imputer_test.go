package preprocessing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/carprep/pkg/errors"
	"github.com/ezoic/carprep/preprocessing"
)

func TestSimpleImputer_MostFrequent(t *testing.T) {
	train := [][]string{
		{"low", "small"},
		{"low", ""},
		{"high", "big"},
		{"NA", "big"},
	}

	imputer := preprocessing.NewMostFrequentImputer()
	require.NoError(t, imputer.Fit(train))
	assert.Equal(t, []string{"low", "big"}, imputer.Statistics)

	out, err := imputer.TransformStrings(train)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"low", "small"},
		{"low", "big"},
		{"high", "big"},
		{"low", "big"},
	}, out)

	// The input is left untouched.
	assert.Equal(t, "", train[1][1])
}

func TestSimpleImputer_UsesFitStatistics(t *testing.T) {
	imputer := preprocessing.NewMostFrequentImputer()
	require.NoError(t, imputer.Fit([][]string{{"low"}, {"low"}, {"high"}}))

	// "high" dominates the transform input but the fill value stays from fit.
	out, err := imputer.TransformStrings([][]string{{"high"}, {"high"}, {""}})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"high"}, {"high"}, {"low"}}, out)
}

func TestSimpleImputer_TieBreaksLexically(t *testing.T) {
	imputer := preprocessing.NewMostFrequentImputer()
	require.NoError(t, imputer.Fit([][]string{{"vhigh"}, {"med"}, {"high"}, {"vhigh"}, {"high"}, {"med"}}))
	assert.Equal(t, []string{"high"}, imputer.Statistics)
}

func TestSimpleImputer_Constant(t *testing.T) {
	imputer := preprocessing.NewSimpleImputer(preprocessing.StrategyConstant, "unknown")
	require.NoError(t, imputer.Fit([][]string{{"a", ""}, {"b", "c"}}))

	out, err := imputer.TransformStrings([][]string{{"", "null"}})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"unknown", "unknown"}}, out)

	bad := preprocessing.NewSimpleImputer(preprocessing.StrategyConstant, "NaN")
	var validationErr *errors.ValidationError
	require.True(t, errors.As(bad.Fit([][]string{{"a"}}), &validationErr))
}

func TestSimpleImputer_Errors(t *testing.T) {
	imputer := preprocessing.NewMostFrequentImputer()

	_, err := imputer.TransformStrings([][]string{{"a"}})
	assert.True(t, errors.Is(err, errors.ErrNotFitted))

	err = imputer.Fit(nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	var valErr *errors.ValueError
	err = imputer.Fit([][]string{{"a", ""}, {"b", "NaN"}})
	require.True(t, errors.As(err, &valErr), "all-missing column: %v", err)

	unknown := preprocessing.NewSimpleImputer("median", "")
	var validationErr *errors.ValidationError
	require.True(t, errors.As(unknown.Fit([][]string{{"a"}}), &validationErr))

	require.NoError(t, imputer.Fit([][]string{{"a", "b"}}))
	_, err = imputer.TransformStrings([][]string{{"a"}})
	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr))
}

func TestLabelEncoder(t *testing.T) {
	le := preprocessing.NewLabelEncoder()

	encoded, err := le.FitTransform([]string{"unacc", "acc", "vgood", "acc", "good"})
	require.NoError(t, err)
	assert.Equal(t, []string{"acc", "good", "unacc", "vgood"}, le.Classes)
	assert.Equal(t, []float64{2, 0, 3, 0, 1}, encoded)

	decoded, err := le.InverseTransform([]float64{3, 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"vgood", "good"}, decoded)

	_, err = le.Transform([]string{"excellent"})
	var valErr *errors.ValueError
	require.True(t, errors.As(err, &valErr))

	_, err = le.InverseTransform([]float64{1.5})
	require.True(t, errors.As(err, &valErr))
	_, err = le.InverseTransform([]float64{4})
	require.True(t, errors.As(err, &valErr))

	err = preprocessing.NewLabelEncoder().Fit([]string{"acc", ""})
	require.True(t, errors.As(err, &valErr))

	_, err = preprocessing.NewLabelEncoder().Transform([]string{"acc"})
	assert.True(t, errors.Is(err, errors.ErrNotFitted))
}
