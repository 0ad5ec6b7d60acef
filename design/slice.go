package design

import "gonum.org/v1/gonum/mat"

// RowSubset builds a new dense matrix containing only the given sample
// rows, in order — used by the CV driver to slice train/test folds
// without ever mutating the caller's X.
func RowSubset(X *mat.Dense, rows []int) *mat.Dense {
	_, p := X.Dims()
	out := mat.NewDense(len(rows), p, nil)
	for i, r := range rows {
		out.SetRow(i, mat.Row(nil, r, X))
	}
	return out
}

// VecSubset builds a new slice containing only the given indices.
func VecSubset(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}

// SparseRowSubset builds a new CSC matrix containing only the given
// sample rows, in order, without ever densifying X — the sparse-CV
// counterpart of RowSubset. Row indices are remapped into the
// compacted 0..len(rows) row space the subset matrix occupies.
func SparseRowSubset(X *CSC, rows []int) *CSC {
	newIndex := make([]int, X.NSamples)
	for i := range newIndex {
		newIndex[i] = -1
	}
	for newRow, oldRow := range rows {
		newIndex[oldRow] = newRow
	}

	p := X.NCols()
	colPtr := make([]int, p+1)
	var data []float64
	var rowIndices []int
	for j := 0; j < p; j++ {
		oldRows, vals := X.Col(j)
		for k, r := range oldRows {
			if nr := newIndex[r]; nr >= 0 {
				rowIndices = append(rowIndices, nr)
				data = append(data, vals[k])
			}
		}
		colPtr[j+1] = len(data)
	}

	return &CSC{Data: data, RowIndices: rowIndices, ColPtr: colPtr, NSamples: len(rows)}
}

// CSCToDenseRows materializes a CSC matrix as raw (uncentered)
// row-major slices — used only where a small number of rows genuinely
// needs dense access (e.g. test-fold prediction), never on a full
// training matrix, so it does not defeat the sparse kernel's whole
// point of never densifying the fit path itself.
func CSCToDenseRows(X *CSC) [][]float64 {
	n, p := X.Dims()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, p)
	}
	for j := 0; j < p; j++ {
		oldRows, vals := X.Col(j)
		for k, r := range oldRows {
			rows[r][j] = vals[k]
		}
	}
	return rows
}
