package preprocessing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/carprep/preprocessing"
)

func TestSparseMatrix(t *testing.T) {
	// [[0 2 0]
	//  [0 0 0]
	//  [1 0 3]]
	s, err := preprocessing.NewSparseMatrix(3, 3, []int{0, 1, 1, 3}, []int{1, 0, 2}, []float64{2, 1, 3})
	require.NoError(t, err)

	r, c := s.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 3, s.NNZ())
	assert.InDelta(t, 3.0/9.0, s.Density(), 1e-12)

	want := mat.NewDense(3, 3, []float64{0, 2, 0, 0, 0, 0, 1, 0, 3})
	assert.True(t, mat.Equal(want, s))
	assert.True(t, mat.Equal(want, s.ToDense()))
	assert.True(t, mat.Equal(want.T(), s.T()))

	assert.Panics(t, func() { s.At(3, 0) })
	assert.Panics(t, func() { s.At(0, -1) })
}

func TestNewSparseMatrixValidation(t *testing.T) {
	_, err := preprocessing.NewSparseMatrix(2, 2, []int{0, 1}, []int{0}, []float64{1})
	assert.Error(t, err, "indptr too short")

	_, err = preprocessing.NewSparseMatrix(1, 2, []int{0, 2}, []int{1, 0}, []float64{1, 1})
	assert.Error(t, err, "unsorted indices")

	_, err = preprocessing.NewSparseMatrix(1, 2, []int{0, 1}, []int{2}, []float64{1})
	assert.Error(t, err, "index out of range")

	_, err = preprocessing.NewSparseMatrix(1, 2, []int{0, 1}, []int{0}, nil)
	assert.Error(t, err, "data length")
}

func TestHStack(t *testing.T) {
	a, err := preprocessing.NewSparseMatrix(2, 2, []int{0, 1, 2}, []int{0, 1}, []float64{1, 1})
	require.NoError(t, err)
	b, err := preprocessing.NewSparseMatrix(2, 3, []int{0, 1, 1}, []int{2}, []float64{1})
	require.NoError(t, err)

	stacked, err := preprocessing.HStack(a, b)
	require.NoError(t, err)
	want := mat.NewDense(2, 5, []float64{
		1, 0, 0, 0, 1,
		0, 1, 0, 0, 0,
	})
	assert.True(t, mat.Equal(want, stacked))

	short, err := preprocessing.NewSparseMatrix(1, 1, []int{0, 0}, nil, nil)
	require.NoError(t, err)
	_, err = preprocessing.HStack(a, short)
	assert.Error(t, err)

	_, err = preprocessing.HStack()
	assert.Error(t, err)
}

func TestDensify(t *testing.T) {
	d := mat.NewDense(1, 2, []float64{1, 2})
	assert.Same(t, d, preprocessing.Densify(d))
	assert.False(t, preprocessing.IsSparse(d))

	copied := preprocessing.Densify(d.T())
	assert.True(t, mat.Equal(d.T(), copied))
}
