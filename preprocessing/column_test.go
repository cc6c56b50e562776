package preprocessing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/carprep/dataset"
	"github.com/ezoic/carprep/pkg/errors"
	"github.com/ezoic/carprep/preprocessing"
)

func carTable(t *testing.T, header []string, records [][]string) *dataset.Table {
	t.Helper()
	table, err := dataset.NewTable(header, records)
	require.NoError(t, err)
	return table
}

func newCarTransformer(columns ...string) *preprocessing.ColumnTransformer {
	return preprocessing.NewColumnTransformer(preprocessing.ColumnSpec{
		Name:     "cat_pipeline",
		Columns:  columns,
		Pipeline: preprocessing.NewCategoricalPipeline(),
	})
}

func TestColumnTransformer_FitTransform(t *testing.T) {
	train := carTable(t,
		[]string{"buying", "extra", "safety"},
		[][]string{
			{"low", "ignored", "high"},
			{"high", "ignored", ""},
			{"low", "ignored", "med"},
			{"", "ignored", "med"},
		})

	ct := newCarTransformer("buying", "safety")
	out, err := ct.FitTransform(train)
	require.NoError(t, err)

	// buying: [high, low]; safety: [high, med]. Missing cells take the mode.
	assertMatrix(t, [][]float64{
		{0, 1, 1, 0},
		{1, 0, 0, 1},
		{0, 1, 0, 1},
		{0, 1, 0, 1},
	}, out)
	assert.Equal(t, 4, ct.NOutputs)
	assert.Equal(t, []string{
		"cat_pipeline__buying_high", "cat_pipeline__buying_low",
		"cat_pipeline__safety_high", "cat_pipeline__safety_med",
	}, ct.GetFeatureNamesOut())
}

func TestColumnTransformer_SparseThreshold(t *testing.T) {
	train := carTable(t,
		[]string{"a", "b"},
		[][]string{{"1", "x"}, {"2", "y"}, {"3", "z"}, {"4", "w"}})

	// 2 non-zeros per row over 8 columns: density 0.25.
	ct := newCarTransformer("a", "b")
	out, err := ct.FitTransform(train)
	require.NoError(t, err)
	require.True(t, preprocessing.IsSparse(out))

	sparse := out.(*preprocessing.SparseMatrix)
	assert.InDelta(t, 0.25, sparse.Density(), 1e-12)

	dense := newCarTransformer("a", "b")
	dense.SparseThreshold = 0
	denseOut, err := dense.FitTransform(train)
	require.NoError(t, err)
	_, isDense := denseOut.(*mat.Dense)
	require.True(t, isDense)

	assert.True(t, mat.Equal(preprocessing.Densify(out), denseOut))
}

func TestColumnTransformer_UnseenCategory(t *testing.T) {
	train := carTable(t, []string{"buying"}, [][]string{{"low"}, {"high"}})
	test := carTable(t, []string{"buying"}, [][]string{{"medium"}, {"low"}})

	ct := newCarTransformer("buying")
	require.NoError(t, ct.Fit(train))
	assert.Equal(t, 2, ct.NOutputs)

	out, err := ct.Transform(test)
	require.NoError(t, err)
	assertMatrix(t, [][]float64{{0, 0}, {0, 1}}, out)
}

func TestColumnTransformer_Errors(t *testing.T) {
	train := carTable(t, []string{"buying"}, [][]string{{"low"}})

	ct := newCarTransformer("buying", "safety")
	err := ct.Fit(train)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingColumn))
	assert.False(t, ct.IsFitted())

	ct = newCarTransformer("buying")
	_, err = ct.Transform(train)
	assert.True(t, errors.Is(err, errors.ErrNotFitted))

	require.NoError(t, ct.Fit(train))
	err = ct.Fit(train)
	var valErr *errors.ValueError
	require.True(t, errors.As(err, &valErr), "refit must fail: %v", err)

	_, err = ct.Transform(carTable(t, []string{"other"}, [][]string{{"x"}}))
	assert.True(t, errors.Is(err, errors.ErrMissingColumn))

	_, err = ct.Transform(carTable(t, []string{"buying"}, nil))
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	empty := preprocessing.NewColumnTransformer()
	var validationErr *errors.ValidationError
	require.True(t, errors.As(empty.Fit(train), &validationErr))
}

func TestColumnTransformer_Deterministic(t *testing.T) {
	records := [][]string{
		{"vhigh", "2"}, {"low", "4"}, {"med", "5more"}, {"low", "3"}, {"high", ""},
	}
	train := carTable(t, []string{"buying", "doors"}, records)

	first := newCarTransformer("buying", "doors")
	out1, err := first.FitTransform(train)
	require.NoError(t, err)

	second := newCarTransformer("buying", "doors")
	out2, err := second.FitTransform(train)
	require.NoError(t, err)

	s1, err := first.ExportState()
	require.NoError(t, err)
	s2, err := second.ExportState()
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
	assert.True(t, mat.Equal(out1, out2))
}

func TestColumnTransformer_StateRoundTrip(t *testing.T) {
	train := carTable(t, []string{"buying", "safety"},
		[][]string{{"low", "high"}, {"high", ""}, {"low", "med"}})
	test := carTable(t, []string{"safety", "buying"},
		[][]string{{"", "medium"}, {"high", "low"}})

	ct := newCarTransformer("buying", "safety")
	require.NoError(t, ct.Fit(train))
	want, err := ct.Transform(test)
	require.NoError(t, err)

	state, err := ct.ExportState()
	require.NoError(t, err)
	assert.Equal(t, []string{"low", "high"}, state.Transformers[0].Steps[0].Imputer.Statistics)
	assert.Equal(t, [][]string{{"high", "low"}, {"high", "med"}}, state.Transformers[0].Encoder.Categories)

	restored, err := preprocessing.RestoreColumnTransformer(state)
	require.NoError(t, err)
	assert.True(t, restored.IsFitted())
	assert.Equal(t, ct.NOutputs, restored.NOutputs)

	got, err := restored.Transform(test)
	require.NoError(t, err)
	assert.True(t, mat.Equal(want, got))

	_, err = preprocessing.NewColumnTransformer().ExportState()
	assert.True(t, errors.Is(err, errors.ErrNotFitted))

	_, err = preprocessing.RestoreColumnTransformer(&preprocessing.ColumnTransformerState{})
	require.Error(t, err)
}

func TestCategoricalPipeline_Unfitted(t *testing.T) {
	p := preprocessing.NewCategoricalPipeline()
	assert.False(t, p.IsFitted())
	assert.Equal(t, 0, p.NOutputs())

	_, err := p.Transform([][]string{{"a"}})
	assert.True(t, errors.Is(err, errors.ErrNotFitted))

	err = (&preprocessing.CategoricalPipeline{}).Fit([][]string{{"a"}})
	var validationErr *errors.ValidationError
	require.True(t, errors.As(err, &validationErr))
}
