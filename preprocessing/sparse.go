package preprocessing

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	carpErrors "github.com/ezoic/carprep/pkg/errors"
)

// SparseMatrix is a compressed sparse row matrix. It implements mat.Matrix,
// so it can be read with At like any gonum matrix, and ToDense converts it
// for consumers that need dense storage.
type SparseMatrix struct {
	rows, cols int
	indptr     []int
	indices    []int
	data       []float64
}

var _ mat.Matrix = (*SparseMatrix)(nil)

// NewSparseMatrix creates a CSR matrix. Row i holds the entries
// indices[indptr[i]:indptr[i+1]] with values data[indptr[i]:indptr[i+1]];
// column indices within a row must be strictly increasing.
func NewSparseMatrix(rows, cols int, indptr, indices []int, data []float64) (*SparseMatrix, error) {
	if len(indptr) != rows+1 {
		return nil, carpErrors.NewDimensionError("NewSparseMatrix", rows+1, len(indptr), 0)
	}
	if len(indices) != len(data) {
		return nil, carpErrors.NewDimensionError("NewSparseMatrix", len(indices), len(data), 1)
	}
	if indptr[0] != 0 || indptr[rows] != len(indices) {
		return nil, carpErrors.NewValueError("NewSparseMatrix", "indptr does not cover indices")
	}
	for i := 0; i < rows; i++ {
		if indptr[i+1] < indptr[i] {
			return nil, carpErrors.NewValueError("NewSparseMatrix", "indptr must be non-decreasing")
		}
		prev := -1
		for _, j := range indices[indptr[i]:indptr[i+1]] {
			if j <= prev || j >= cols {
				return nil, carpErrors.NewValueError("NewSparseMatrix", "column indices must be increasing and in range")
			}
			prev = j
		}
	}
	return &SparseMatrix{rows: rows, cols: cols, indptr: indptr, indices: indices, data: data}, nil
}

// newBinaryCSR builds a 0/1 matrix from trusted structure.
func newBinaryCSR(rows, cols int, indptr, indices []int) *SparseMatrix {
	data := make([]float64, len(indices))
	for k := range data {
		data[k] = 1
	}
	return &SparseMatrix{rows: rows, cols: cols, indptr: indptr, indices: indices, data: data}
}

// Dims returns the number of rows and columns.
func (s *SparseMatrix) Dims() (r, c int) {
	return s.rows, s.cols
}

// At returns the element at row i, column j.
func (s *SparseMatrix) At(i, j int) float64 {
	if i < 0 || i >= s.rows {
		panic(mat.ErrRowAccess)
	}
	if j < 0 || j >= s.cols {
		panic(mat.ErrColAccess)
	}
	lo, hi := s.indptr[i], s.indptr[i+1]
	row := s.indices[lo:hi]
	k := sort.SearchInts(row, j)
	if k < len(row) && row[k] == j {
		return s.data[lo+k]
	}
	return 0
}

// T returns the transpose view.
func (s *SparseMatrix) T() mat.Matrix {
	return mat.Transpose{Matrix: s}
}

// NNZ returns the number of stored entries.
func (s *SparseMatrix) NNZ() int {
	return len(s.indices)
}

// Density returns NNZ / (rows × cols), or 0 for an empty shape.
func (s *SparseMatrix) Density() float64 {
	if s.rows == 0 || s.cols == 0 {
		return 0
	}
	return float64(len(s.indices)) / float64(s.rows*s.cols)
}

// ToDense converts to a dense matrix. It panics on a zero dimension, as
// mat.NewDense does.
func (s *SparseMatrix) ToDense() *mat.Dense {
	dense := mat.NewDense(s.rows, s.cols, nil)
	for i := 0; i < s.rows; i++ {
		for k := s.indptr[i]; k < s.indptr[i+1]; k++ {
			dense.Set(i, s.indices[k], s.data[k])
		}
	}
	return dense
}

// HStack concatenates matrices with equal row counts left to right.
func HStack(blocks ...*SparseMatrix) (*SparseMatrix, error) {
	if len(blocks) == 0 {
		return nil, carpErrors.NewModelError("HStack", "no blocks", carpErrors.ErrEmptyData)
	}

	rows := blocks[0].rows
	cols, nnz := 0, 0
	for _, b := range blocks {
		if b.rows != rows {
			return nil, carpErrors.NewDimensionError("HStack", rows, b.rows, 0)
		}
		cols += b.cols
		nnz += len(b.indices)
	}

	indptr := make([]int, 1, rows+1)
	indices := make([]int, 0, nnz)
	data := make([]float64, 0, nnz)
	for i := 0; i < rows; i++ {
		offset := 0
		for _, b := range blocks {
			for k := b.indptr[i]; k < b.indptr[i+1]; k++ {
				indices = append(indices, offset+b.indices[k])
				data = append(data, b.data[k])
			}
			offset += b.cols
		}
		indptr = append(indptr, len(indices))
	}

	return &SparseMatrix{rows: rows, cols: cols, indptr: indptr, indices: indices, data: data}, nil
}

// IsSparse reports whether m uses sparse storage.
func IsSparse(m mat.Matrix) bool {
	_, ok := m.(*SparseMatrix)
	return ok
}

// Densify returns m as a *mat.Dense, converting sparse storage. A dense
// input is returned as is.
func Densify(m mat.Matrix) *mat.Dense {
	switch v := m.(type) {
	case *SparseMatrix:
		return v.ToDense()
	case *mat.Dense:
		return v
	default:
		return mat.DenseCopyOf(m)
	}
}
