package recipe

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/recipes/dataset"
	"github.com/YuminosukeSato/recipes/pkg/errors"
)

// Default thresholds for the near-zero-variance filter.
const (
	// DefaultFreqCut is the cutoff for the ratio of the most common value's
	// frequency to the second most common value's frequency.
	DefaultFreqCut = 95.0 / 5.0
	// DefaultUniqueCut is the cutoff for the percentage of distinct values
	// out of the total number of rows.
	DefaultUniqueCut = 10.0
)

// NearZeroVarStep removes columns with (near-)zero variance: columns with a
// single distinct value, or whose most common value dominates while few
// distinct values exist.
type NearZeroVarStep struct {
	baseStep

	// FreqCut and UniqueCut are the filter thresholds.
	FreqCut   float64
	UniqueCut float64

	// Dropped and Retained hold the fitted filter decision.
	Dropped  []string
	Retained []string
}

// NearZeroVar creates a near-zero-variance filter with explicit thresholds.
func NearZeroVar(sel Selector, freqCut, uniqueCut float64) *NearZeroVarStep {
	return &NearZeroVarStep{
		baseStep:  baseStep{name: "nzv", sel: sel},
		FreqCut:   freqCut,
		UniqueCut: uniqueCut,
	}
}

// NearZeroVarDefault creates a near-zero-variance filter with the standard
// thresholds (95/5 frequency ratio, 10% unique).
func NearZeroVarDefault(sel Selector) *NearZeroVarStep {
	return NearZeroVar(sel, DefaultFreqCut, DefaultUniqueCut)
}

// Fit decides which of the resolved columns to drop.
func (s *NearZeroVarStep) Fit(ds *dataset.Dataset, cols []string) error {
	rows := ds.Rows()
	if rows == 0 {
		return errors.Wrap(errors.ErrEmptyData, "nzv.Fit")
	}

	s.Dropped = nil
	s.Retained = nil
	for _, name := range cols {
		c, err := ds.Column(name)
		if err != nil {
			return err
		}
		if s.nearZeroVar(c, rows) {
			s.Dropped = append(s.Dropped, name)
		} else {
			s.Retained = append(s.Retained, name)
		}
	}
	s.setFitted()
	return nil
}

// nearZeroVar applies the frequency-ratio and unique-percentage criteria to
// one column.
func (s *NearZeroVarStep) nearZeroVar(c dataset.Column, rows int) bool {
	counts := make(map[string]int)
	switch c.Type {
	case dataset.Categorical:
		for _, v := range c.Label {
			counts[v]++
		}
	default:
		for _, v := range c.Float {
			counts[fmt.Sprintf("%g", v)]++
		}
	}

	if len(counts) <= 1 {
		// Zero variance.
		return true
	}

	freqs := make([]int, 0, len(counts))
	for _, n := range counts {
		freqs = append(freqs, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(freqs)))

	freqRatio := float64(freqs[0]) / float64(freqs[1])
	uniquePct := 100.0 * float64(len(counts)) / float64(rows)
	return freqRatio > s.FreqCut && uniquePct < s.UniqueCut
}

// Apply drops the filtered columns. The retained columns must be present.
func (s *NearZeroVarStep) Apply(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if err := s.requireFitted("Apply"); err != nil {
		return nil, err
	}
	if missing := missingColumns(ds, s.Retained); len(missing) > 0 {
		return nil, errors.NewSchemaMismatchError("nzv.Apply", missing)
	}
	return ds.Drop(s.Dropped)
}

// Clone returns an unfitted copy with the same thresholds.
func (s *NearZeroVarStep) Clone() Step {
	return NearZeroVar(s.sel, s.FreqCut, s.UniqueCut)
}

// String returns the step representation.
func (s *NearZeroVarStep) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("NearZeroVar(%s, freq_cut=%.2f, unique_cut=%.1f)", s.sel, s.FreqCut, s.UniqueCut)
	}
	return fmt.Sprintf("NearZeroVar(%s, dropped=%d, retained=%d)", s.sel, len(s.Dropped), len(s.Retained))
}

// CorrFilterStep removes the minimal set of columns needed so that no pair of
// remaining selected columns has absolute pairwise correlation above the
// threshold. Of each offending pair, the column with the larger mean absolute
// correlation to the others is dropped.
type CorrFilterStep struct {
	baseStep

	// Threshold is the absolute correlation cutoff.
	Threshold float64

	// Dropped and Retained hold the fitted filter decision.
	Dropped  []string
	Retained []string
}

// CorrFilter creates a correlation filter with the given absolute cutoff.
func CorrFilter(sel Selector, threshold float64) *CorrFilterStep {
	return &CorrFilterStep{
		baseStep:  baseStep{name: "corr", sel: sel},
		Threshold: threshold,
	}
}

// Fit computes the correlation matrix over the resolved columns and decides
// greedily which to drop. A degenerate column (zero variance) makes the
// correlation undefined and fails the fit.
func (s *CorrFilterStep) Fit(ds *dataset.Dataset, cols []string) error {
	if ds.Rows() < 2 {
		return errors.NewValueError("corr.Fit", "need at least 2 rows to estimate correlations")
	}
	if s.Threshold <= 0 || s.Threshold > 1 {
		return errors.NewValidationError("threshold", "must be in (0, 1]", s.Threshold)
	}
	if err := requireNumeric("corr.Fit", ds, cols); err != nil {
		return err
	}

	s.Dropped = nil
	s.Retained = append([]string(nil), cols...)
	if len(cols) < 2 {
		s.setFitted()
		return nil
	}

	x, err := ds.Matrix(cols)
	if err != nil {
		return err
	}
	d := len(cols)
	corr := mat.NewSymDense(d, nil)
	stat.CorrelationMatrix(corr, x, nil)
	if err := errors.CheckMatrix("corr.Fit", corr, d, d); err != nil {
		return err
	}

	active := make([]bool, d)
	for i := range active {
		active[i] = true
	}

	for {
		bestI, bestJ, bestAbs := -1, -1, s.Threshold
		for i := 0; i < d; i++ {
			if !active[i] {
				continue
			}
			for j := i + 1; j < d; j++ {
				if !active[j] {
					continue
				}
				a := math.Abs(corr.At(i, j))
				if a > bestAbs {
					bestI, bestJ, bestAbs = i, j, a
				}
			}
		}
		if bestI < 0 {
			break
		}
		// Drop the pair member more correlated with everything else.
		if meanAbsCorr(corr, active, bestI) >= meanAbsCorr(corr, active, bestJ) {
			active[bestI] = false
		} else {
			active[bestJ] = false
		}
	}

	s.Retained = s.Retained[:0]
	for i, name := range cols {
		if active[i] {
			s.Retained = append(s.Retained, name)
		} else {
			s.Dropped = append(s.Dropped, name)
		}
	}
	s.setFitted()
	return nil
}

// meanAbsCorr is the mean absolute correlation of column i to the other
// active columns.
func meanAbsCorr(corr *mat.SymDense, active []bool, i int) float64 {
	sum, n := 0.0, 0
	for j := range active {
		if j == i || !active[j] {
			continue
		}
		sum += math.Abs(corr.At(i, j))
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Apply drops the filtered columns. The retained columns must be present.
func (s *CorrFilterStep) Apply(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if err := s.requireFitted("Apply"); err != nil {
		return nil, err
	}
	if missing := missingColumns(ds, s.Retained); len(missing) > 0 {
		return nil, errors.NewSchemaMismatchError("corr.Apply", missing)
	}
	return ds.Drop(s.Dropped)
}

// Clone returns an unfitted copy with the same threshold.
func (s *CorrFilterStep) Clone() Step {
	return CorrFilter(s.sel, s.Threshold)
}

// String returns the step representation.
func (s *CorrFilterStep) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("CorrFilter(%s, threshold=%.2f)", s.sel, s.Threshold)
	}
	return fmt.Sprintf("CorrFilter(%s, threshold=%.2f, dropped=%d)", s.sel, s.Threshold, len(s.Dropped))
}
