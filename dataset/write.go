package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/carprep/pkg/errors"
)

// WriteMatrixCSV writes m as CSV to w. A non-nil header must have one name
// per column of m.
func WriteMatrixCSV(w io.Writer, m mat.Matrix, header []string) error {
	r, c := m.Dims()
	if header != nil && len(header) != c {
		return errors.NewDimensionError("WriteMatrixCSV", c, len(header), 1)
	}

	writer := csv.NewWriter(w)
	if header != nil {
		if err := writer.Write(header); err != nil {
			return errors.NewIOError("WriteMatrixCSV", "<writer>", fmt.Errorf("failed to write header: %w", err))
		}
	}

	record := make([]string, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			record[j] = strconv.FormatFloat(m.At(i, j), 'g', -1, 64)
		}
		if err := writer.Write(record); err != nil {
			return errors.NewIOError("WriteMatrixCSV", "<writer>", fmt.Errorf("failed to write row %d: %w", i, err))
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.NewIOError("WriteMatrixCSV", "<writer>", err)
	}
	return nil
}

// WriteMatrixCSVFile writes m to path, creating parent directories.
func WriteMatrixCSVFile(path string, m mat.Matrix, header []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewIOError("WriteMatrixCSVFile", path, fmt.Errorf("failed to create directory: %w", err))
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.NewIOError("WriteMatrixCSVFile", path, fmt.Errorf("failed to create file: %w", err))
	}
	if err := WriteMatrixCSV(file, m, header); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return errors.NewIOError("WriteMatrixCSVFile", path, err)
	}
	return nil
}
