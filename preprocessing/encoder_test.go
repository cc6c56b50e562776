package preprocessing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/carprep/pkg/errors"
	"github.com/ezoic/carprep/preprocessing"
)

func assertMatrix(t *testing.T, expected [][]float64, m mat.Matrix) {
	t.Helper()
	r, c := m.Dims()
	require.Equal(t, len(expected), r, "rows")
	for i := 0; i < r; i++ {
		require.Equal(t, len(expected[i]), c, "cols")
		for j := 0; j < c; j++ {
			assert.Equal(t, expected[i][j], m.At(i, j), "At(%d, %d)", i, j)
		}
	}
}

func TestOneHotEncoder_Fit(t *testing.T) {
	data := [][]string{
		{"vhigh", "low"},
		{"low", "high"},
		{"vhigh", "low"},
		{"med", "med"},
	}

	encoder := preprocessing.NewOneHotEncoder()
	require.NoError(t, encoder.Fit(data))

	assert.True(t, encoder.IsFitted())
	assert.Equal(t, 2, encoder.NFeatures)

	// Categories are learned sorted per feature
	assert.Equal(t, [][]string{
		{"low", "med", "vhigh"},
		{"high", "low", "med"},
	}, encoder.Categories)

	// 3 + 3 output columns
	assert.Equal(t, 6, encoder.NOutputs)
}

func TestOneHotEncoder_Transform_Basic(t *testing.T) {
	trainData := [][]string{
		{"vhigh", "low"},
		{"low", "high"},
		{"med", "med"},
	}

	encoder := preprocessing.NewOneHotEncoder()
	require.NoError(t, encoder.Fit(trainData))

	result, err := encoder.Transform(trainData)
	require.NoError(t, err)

	// Column order: [low, med, vhigh] x [high, low, med]
	assertMatrix(t, [][]float64{
		{0, 0, 1, 0, 1, 0},
		{1, 0, 0, 1, 0, 0},
		{0, 1, 0, 0, 0, 1},
	}, result)
}

func TestOneHotEncoder_TransformSparseMatchesDense(t *testing.T) {
	data := [][]string{{"2", "small"}, {"4", "big"}, {"5more", "med"}, {"3", "big"}}

	encoder := preprocessing.NewOneHotEncoder()
	dense, err := encoder.FitTransform(data)
	require.NoError(t, err)

	sparse, err := encoder.TransformSparse(data)
	require.NoError(t, err)
	assert.Equal(t, 4*2, sparse.NNZ(), "exactly one indicator per feature and row")
	assert.True(t, mat.Equal(dense, sparse.ToDense()))
}

func TestOneHotEncoder_UnfittedError(t *testing.T) {
	encoder := preprocessing.NewOneHotEncoder()

	_, err := encoder.Transform([][]string{{"low", "high"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFitted))
}

func TestOneHotEncoder_EmptyDataError(t *testing.T) {
	encoder := preprocessing.NewOneHotEncoder()

	err := encoder.Fit([][]string{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestOneHotEncoder_FitTransform(t *testing.T) {
	data := [][]string{
		{"low", "2"},
		{"high", "4"},
		{"low", "2"},
	}

	encoder1 := preprocessing.NewOneHotEncoder()
	result1, err := encoder1.FitTransform(data)
	require.NoError(t, err)

	encoder2 := preprocessing.NewOneHotEncoder()
	require.NoError(t, encoder2.Fit(data))
	result2, err := encoder2.Transform(data)
	require.NoError(t, err)

	assert.True(t, mat.Equal(result1, result2))
}

func TestOneHotEncoder_UnknownCategory(t *testing.T) {
	trainData := [][]string{
		{"low", "acc"},
		{"high", "unacc"},
	}

	encoder := preprocessing.NewOneHotEncoder()
	require.NoError(t, encoder.Fit(trainData))

	testData := [][]string{
		{"low", "acc"},     // [0,1,1,0]
		{"medium", "good"}, // both unseen
		{"high", "unacc"},  // [1,0,0,1]
	}

	result, err := encoder.Transform(testData)
	require.NoError(t, err)

	assertMatrix(t, [][]float64{
		{0, 1, 1, 0},
		{0, 0, 0, 0},
		{1, 0, 0, 1},
	}, result)
}

func TestOneHotEncoder_UnknownCategoryError(t *testing.T) {
	encoder := preprocessing.NewOneHotEncoder()
	encoder.HandleUnknown = preprocessing.HandleUnknownError
	require.NoError(t, encoder.Fit([][]string{{"low"}, {"high"}}))

	_, err := encoder.Transform([][]string{{"medium"}})
	var valErr *errors.ValueError
	require.True(t, errors.As(err, &valErr), "got %v", err)
	assert.Contains(t, valErr.Message, "medium")

	bad := &preprocessing.OneHotEncoder{HandleUnknown: "explode"}
	var validationErr *errors.ValidationError
	require.True(t, errors.As(bad.Fit([][]string{{"a"}}), &validationErr))
}

func TestOneHotEncoder_DimensionMismatch(t *testing.T) {
	encoder := preprocessing.NewOneHotEncoder()
	require.NoError(t, encoder.Fit([][]string{{"low", "2"}, {"high", "4"}}))

	_, err := encoder.Transform([][]string{{"low", "2", "small"}})
	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 2, dimErr.Expected)
	assert.Equal(t, 3, dimErr.Got)

	err = preprocessing.NewOneHotEncoder().Fit([][]string{{"low", "2"}, {"high"}})
	require.True(t, errors.As(err, &dimErr))
}

func TestOneHotEncoder_GetFeatureNamesOut(t *testing.T) {
	encoder := preprocessing.NewOneHotEncoder()
	require.NoError(t, encoder.Fit([][]string{
		{"vhigh", "small"},
		{"low", "big"},
		{"med", "small"},
	}))

	assert.Equal(t, []string{
		"x0_low", "x0_med", "x0_vhigh",
		"x1_big", "x1_small",
	}, encoder.GetFeatureNamesOut(nil))

	assert.Equal(t, []string{
		"buying_low", "buying_med", "buying_vhigh",
		"lug_boot_big", "lug_boot_small",
	}, encoder.GetFeatureNamesOut([]string{"buying", "lug_boot"}))
}

func TestOneHotEncoder_GetFeatureNamesOut_Unfitted(t *testing.T) {
	encoder := preprocessing.NewOneHotEncoder()
	assert.Nil(t, encoder.GetFeatureNamesOut(nil))
}
