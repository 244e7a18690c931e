package recipe

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/recipes/dataset"
	"github.com/YuminosukeSato/recipes/pkg/errors"
)

// minScale is the variance floor below which a column is treated as constant
// and its scale clamped to 1.0.
const minScale = 1e-8

// CenterStep subtracts the training-set mean from each selected column.
type CenterStep struct {
	baseStep

	// Means holds the fitted per-column means, keyed by column name.
	Means map[string]float64

	columns []string
}

// Center creates a centering step for the selected columns.
//
// Example:
//
//	rcp.Add(recipe.Center(recipe.AllNumericPredictors()))
func Center(sel Selector) *CenterStep {
	return &CenterStep{baseStep: baseStep{name: "center", sel: sel}}
}

// Fit computes the mean of each resolved column.
func (s *CenterStep) Fit(ds *dataset.Dataset, cols []string) error {
	if ds.Rows() == 0 {
		return errors.Wrap(errors.ErrEmptyData, "center.Fit")
	}
	if err := requireNumeric("center.Fit", ds, cols); err != nil {
		return err
	}

	s.Means = make(map[string]float64, len(cols))
	for _, name := range cols {
		c, err := ds.Column(name)
		if err != nil {
			return err
		}
		sum := 0.0
		for _, v := range c.Float {
			sum += v
		}
		s.Means[name] = sum / float64(len(c.Float))
	}
	s.columns = append([]string(nil), cols...)
	s.setFitted()
	return nil
}

// Apply subtracts the fitted means.
func (s *CenterStep) Apply(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if err := s.requireFitted("Apply"); err != nil {
		return nil, err
	}
	if missing := missingColumns(ds, s.columns); len(missing) > 0 {
		return nil, errors.NewSchemaMismatchError("center.Apply", missing)
	}

	out := ds
	for _, name := range s.columns {
		c, err := out.Column(name)
		if err != nil {
			return nil, err
		}
		mean := s.Means[name]
		shifted := make([]float64, len(c.Float))
		for i, v := range c.Float {
			shifted[i] = v - mean
		}
		out, err = out.Replace(dataset.NewNumeric(name, shifted))
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Clone returns an unfitted copy with the same selector.
func (s *CenterStep) Clone() Step {
	return Center(s.sel)
}

// String returns the step representation.
func (s *CenterStep) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("Center(%s)", s.sel)
	}
	return fmt.Sprintf("Center(%s, n_columns=%d)", s.sel, len(s.columns))
}

// ScaleStep divides each selected column by its training-set standard
// deviation. Constant columns get scale 1.0 and raise ConstantColumnWarning.
type ScaleStep struct {
	baseStep

	// Scales holds the fitted per-column standard deviations.
	Scales map[string]float64

	columns []string
}

// Scale creates a scaling step for the selected columns.
func Scale(sel Selector) *ScaleStep {
	return &ScaleStep{baseStep: baseStep{name: "scale", sel: sel}}
}

// Fit computes the standard deviation of each resolved column.
func (s *ScaleStep) Fit(ds *dataset.Dataset, cols []string) error {
	if ds.Rows() == 0 {
		return errors.Wrap(errors.ErrEmptyData, "scale.Fit")
	}
	if err := requireNumeric("scale.Fit", ds, cols); err != nil {
		return err
	}

	s.Scales = make(map[string]float64, len(cols))
	for _, name := range cols {
		c, err := ds.Column(name)
		if err != nil {
			return err
		}
		n := float64(len(c.Float))
		mean := 0.0
		for _, v := range c.Float {
			mean += v
		}
		mean /= n

		sumSquares := 0.0
		for _, v := range c.Float {
			diff := v - mean
			sumSquares += diff * diff
		}
		sd := math.Sqrt(sumSquares / n)
		if math.Abs(sd) < minScale {
			errors.Warn(errors.NewConstantColumnWarning("scale", name))
			sd = 1.0
		}
		s.Scales[name] = sd
	}
	s.columns = append([]string(nil), cols...)
	s.setFitted()
	return nil
}

// Apply divides by the fitted standard deviations.
func (s *ScaleStep) Apply(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if err := s.requireFitted("Apply"); err != nil {
		return nil, err
	}
	if missing := missingColumns(ds, s.columns); len(missing) > 0 {
		return nil, errors.NewSchemaMismatchError("scale.Apply", missing)
	}

	out := ds
	for _, name := range s.columns {
		c, err := out.Column(name)
		if err != nil {
			return nil, err
		}
		scale := s.Scales[name]
		scaled := make([]float64, len(c.Float))
		for i, v := range c.Float {
			scaled[i] = v / scale
		}
		out, err = out.Replace(dataset.NewNumeric(name, scaled))
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Clone returns an unfitted copy with the same selector.
func (s *ScaleStep) Clone() Step {
	return Scale(s.sel)
}

// String returns the step representation.
func (s *ScaleStep) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("Scale(%s)", s.sel)
	}
	return fmt.Sprintf("Scale(%s, n_columns=%d)", s.sel, len(s.columns))
}

// RangeStep rescales each selected column into a target range using the
// training-set minimum and maximum.
type RangeStep struct {
	baseStep

	// Min and Max bound the output range.
	Min float64
	Max float64

	// DataMin and DataMax hold the fitted per-column extrema.
	DataMin map[string]float64
	DataMax map[string]float64

	columns []string
}

// RangeScale creates a range-scaling step mapping the selected columns into
// [min, max].
func RangeScale(sel Selector, min, max float64) *RangeStep {
	return &RangeStep{
		baseStep: baseStep{name: "range", sel: sel},
		Min:      min,
		Max:      max,
	}
}

// RangeScaleDefault creates a range-scaling step with the default [0, 1]
// target range.
func RangeScaleDefault(sel Selector) *RangeStep {
	return RangeScale(sel, 0.0, 1.0)
}

// Fit computes the minimum and maximum of each resolved column.
func (s *RangeStep) Fit(ds *dataset.Dataset, cols []string) error {
	if ds.Rows() == 0 {
		return errors.Wrap(errors.ErrEmptyData, "range.Fit")
	}
	if s.Max <= s.Min {
		return errors.NewValidationError("range", "max must be greater than min", [2]float64{s.Min, s.Max})
	}
	if err := requireNumeric("range.Fit", ds, cols); err != nil {
		return err
	}

	s.DataMin = make(map[string]float64, len(cols))
	s.DataMax = make(map[string]float64, len(cols))
	for _, name := range cols {
		c, err := ds.Column(name)
		if err != nil {
			return err
		}
		lo, hi := c.Float[0], c.Float[0]
		for _, v := range c.Float[1:] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		if math.Abs(hi-lo) < minScale {
			errors.Warn(errors.NewConstantColumnWarning("range", name))
		}
		s.DataMin[name] = lo
		s.DataMax[name] = hi
	}
	s.columns = append([]string(nil), cols...)
	s.setFitted()
	return nil
}

// Apply rescales using the fitted extrema.
func (s *RangeStep) Apply(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if err := s.requireFitted("Apply"); err != nil {
		return nil, err
	}
	if missing := missingColumns(ds, s.columns); len(missing) > 0 {
		return nil, errors.NewSchemaMismatchError("range.Apply", missing)
	}

	span := s.Max - s.Min
	out := ds
	for _, name := range s.columns {
		c, err := out.Column(name)
		if err != nil {
			return nil, err
		}
		lo := s.DataMin[name]
		dataSpan := s.DataMax[name] - lo
		if math.Abs(dataSpan) < minScale {
			dataSpan = 1.0
		}
		scaled := make([]float64, len(c.Float))
		for i, v := range c.Float {
			scaled[i] = (v-lo)/dataSpan*span + s.Min
		}
		out, err = out.Replace(dataset.NewNumeric(name, scaled))
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Clone returns an unfitted copy with the same selector and range.
func (s *RangeStep) Clone() Step {
	return RangeScale(s.sel, s.Min, s.Max)
}

// String returns the step representation.
func (s *RangeStep) String() string {
	return fmt.Sprintf("RangeScale(%s, range=[%.1f, %.1f])", s.sel, s.Min, s.Max)
}
