// Package design holds the data-model types shared by the kernels, the
// path engine, and the cross-validation driver: the three design-matrix
// storage modes (dense, compressed sparse column, precomputed Gram),
// the fold specification used by cross-validation, and a handful of
// small helpers (k-fold splitting, row subsetting, intercept recovery)
// that spec.md treats as external collaborators but that this module
// must supply itself.
package design

import "gonum.org/v1/gonum/mat"

// Mode tags which of the three storage representations a Matrix value
// carries. The path engine dispatches to the matching kernel with one
// type switch on the concrete Matrix value; kernels never share state
// across modes.
type Mode int

const (
	ModeDense Mode = iota
	ModeSparse
	ModeGram
)

func (m Mode) String() string {
	switch m {
	case ModeDense:
		return "dense"
	case ModeSparse:
		return "sparse"
	case ModeGram:
		return "gram"
	default:
		return "unknown"
	}
}

// Matrix is implemented by Dense, *CSC, and Gram. It only reports its
// own mode and dimensions; the kernels and path engine type-switch on
// the concrete value to get at the actual data.
type Matrix interface {
	Mode() Mode
	Dims() (nSamples, nFeatures int)
}

// Dense wraps a column-major *mat.Dense design matrix, already centered
// (and optionally scaled) by the pre-fit adapter.
type Dense struct {
	X *mat.Dense
}

func (d Dense) Mode() Mode { return ModeDense }

func (d Dense) Dims() (int, int) {
	n, p := d.X.Dims()
	return n, p
}

// CSC is a compressed-sparse-column design matrix. Samples are not
// physically centered — centering is carried in Mean/Std and applied
// implicitly by the sparse kernel via the identity
// x_centered^T v = x_raw^T v - mean_j * sum(v), so that the kernel never
// has to materialize a dense, centered copy of X.
type CSC struct {
	Data       []float64 // nonzero values, grouped by column
	RowIndices []int     // row index of each entry in Data
	ColPtr     []int     // ColPtr[j]..ColPtr[j+1] is column j's slice into Data/RowIndices
	NSamples   int
	Mean       []float64 // per-column centering offset (zero if not centering)
	Std        []float64 // per-column scale; PrepareSparse always sets all ones, and the sparse kernel does not read it
}

func (c *CSC) Mode() Mode { return ModeSparse }

func (c *CSC) Dims() (int, int) {
	return c.NSamples, len(c.ColPtr) - 1
}

// Col returns the raw (uncentered) nonzero entries of column j as
// (rowIndices, values), a view into the backing slices.
func (c *CSC) Col(j int) (rows []int, vals []float64) {
	lo, hi := c.ColPtr[j], c.ColPtr[j+1]
	return c.RowIndices[lo:hi], c.Data[lo:hi]
}

// NCols reports the number of columns (features).
func (c *CSC) NCols() int { return len(c.ColPtr) - 1 }

// Gram is the precomputed second-moment representation: G = X^T X and
// Xy = X^T y. The Gram kernel never touches the underlying X or a
// residual vector — it reconstructs everything it needs (including
// ||r||^2 for the duality gap) from G, Xy, and W.
type Gram struct {
	G       *mat.SymDense
	Xy      *mat.Dense // nFeatures x nTasks
	YNormSq float64    // ||y||^2 (or per-task in multi-task, summed)
	NSamples int
}

func (g Gram) Mode() Mode { return ModeGram }

func (g Gram) Dims() (int, int) {
	p, _ := g.G.Dims()
	return g.NSamples, p
}
