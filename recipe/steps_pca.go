package recipe

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/recipes/dataset"
	"github.com/YuminosukeSato/recipes/pkg/errors"
)

// PCAStep replaces the selected columns with their leading principal
// components. The source columns are removed and the derived columns, named
// "<prefix>1", "<prefix>2", ..., are appended; being new columns they take
// the predictor role, so a later prefix selector can pick them up.
type PCAStep struct {
	baseStep

	// NumComponents is the requested number of components. Zero selects the
	// smallest number explaining VarianceThreshold of the total variance.
	NumComponents int

	// VarianceThreshold is the cumulative explained-variance target used
	// when NumComponents is zero.
	VarianceThreshold float64

	// Prefix names the derived columns.
	Prefix string

	means  []float64
	proj   *mat.Dense // d x k projection
	source []string
	k      int
}

// PCA creates a principal-component step keeping numComponents components.
// Pass 0 to keep enough components for the default 95% explained variance.
func PCA(sel Selector, numComponents int) *PCAStep {
	return &PCAStep{
		baseStep:          baseStep{name: "pca", sel: sel},
		NumComponents:     numComponents,
		VarianceThreshold: 0.95,
		Prefix:            "PC",
	}
}

// WithPrefix sets the derived column name prefix and returns the step for
// chaining.
func (s *PCAStep) WithPrefix(prefix string) *PCAStep {
	s.Prefix = prefix
	return s
}

// WithVarianceThreshold sets the explained-variance target used when
// NumComponents is zero.
func (s *PCAStep) WithVarianceThreshold(t float64) *PCAStep {
	s.VarianceThreshold = t
	return s
}

// Fit computes the principal-component loadings of the resolved columns.
func (s *PCAStep) Fit(ds *dataset.Dataset, cols []string) (err error) {
	defer errors.Recover(&err, "pca.Fit")

	if ds.Rows() < 2 {
		return errors.NewValueError("pca.Fit", "need at least 2 rows to compute principal components")
	}
	if err := requireNumeric("pca.Fit", ds, cols); err != nil {
		return err
	}
	if s.Prefix == "" {
		return errors.NewValidationError("prefix", "empty component name prefix", s.Prefix)
	}

	x, err := ds.Matrix(cols)
	if err != nil {
		return err
	}
	rows, d := x.Dims()
	if err := errors.CheckMatrix("pca.Fit", x, rows, d); err != nil {
		return err
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(x, nil); !ok {
		return errors.NewValueError("pca.Fit", "principal component decomposition failed")
	}

	var vectors mat.Dense
	pc.VectorsTo(&vectors)
	vars := pc.VarsTo(nil)

	k := s.NumComponents
	if k <= 0 {
		total := 0.0
		for _, v := range vars {
			total += v
		}
		cum := 0.0
		for i, v := range vars {
			cum += v
			if cum/total >= s.VarianceThreshold {
				k = i + 1
				break
			}
		}
		if k <= 0 {
			k = len(vars)
		}
	}
	if k > len(vars) {
		k = len(vars)
	}

	// Column means, needed to center new data before projection.
	s.means = make([]float64, d)
	for j := 0; j < d; j++ {
		sum := 0.0
		for i := 0; i < rows; i++ {
			sum += x.At(i, j)
		}
		s.means[j] = sum / float64(rows)
	}

	proj := mat.NewDense(d, k, nil)
	for i := 0; i < d; i++ {
		for j := 0; j < k; j++ {
			proj.Set(i, j, vectors.At(i, j))
		}
	}
	s.proj = proj
	s.k = k
	s.source = append([]string(nil), cols...)
	s.setFitted()
	return nil
}

// Apply projects the source columns onto the fitted loadings, dropping the
// sources and appending the derived columns.
func (s *PCAStep) Apply(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if err := s.requireFitted("Apply"); err != nil {
		return nil, err
	}
	if missing := missingColumns(ds, s.source); len(missing) > 0 {
		return nil, errors.NewSchemaMismatchError("pca.Apply", missing)
	}

	x, err := ds.Matrix(s.source)
	if err != nil {
		return nil, err
	}
	rows, d := x.Dims()

	centered := mat.NewDense(rows, d, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < d; j++ {
			centered.Set(i, j, x.At(i, j)-s.means[j])
		}
	}

	var scores mat.Dense
	scores.Mul(centered, s.proj)

	out, err := ds.Drop(s.source)
	if err != nil {
		return nil, err
	}
	for j := 0; j < s.k; j++ {
		values := make([]float64, rows)
		for i := 0; i < rows; i++ {
			values[i] = scores.At(i, j)
		}
		out, err = out.Append(dataset.NewNumeric(fmt.Sprintf("%s%d", s.Prefix, j+1), values))
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Clone returns an unfitted copy with the same parameters.
func (s *PCAStep) Clone() Step {
	clone := PCA(s.sel, s.NumComponents)
	clone.Prefix = s.Prefix
	clone.VarianceThreshold = s.VarianceThreshold
	return clone
}

// String returns the step representation.
func (s *PCAStep) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("PCA(%s, components=%d)", s.sel, s.NumComponents)
	}
	return fmt.Sprintf("PCA(%s, components=%d, source=%d)", s.sel, s.k, len(s.source))
}
