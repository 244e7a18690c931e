package recipe

import (
	"github.com/YuminosukeSato/recipes/dataset"
	"github.com/YuminosukeSato/recipes/pkg/errors"
)

// Step is one named, parameterized transformation with a fit/apply lifecycle.
// Fit computes the step's statistics from the training data exactly once;
// Apply reuses them unchanged on any dataset. Steps must not carry observable
// mutable state across Apply calls, so a fitted step is safe to apply from
// concurrent goroutines.
type Step interface {
	// Name identifies the transformation kind, e.g. "center" or "pca".
	Name() string

	// Selector returns the column predicate the step was declared with. The
	// recipe resolves it against the schema snapshot current at the step's
	// position in the sequence.
	Selector() Selector

	// Fit computes the step's fitted state from the resolved columns of the
	// training dataset.
	Fit(ds *dataset.Dataset, cols []string) error

	// Apply transforms a dataset using the fitted state, returning a new
	// dataset. It fails with NotFittedError before Fit and with
	// SchemaMismatchError if a required column is absent.
	Apply(ds *dataset.Dataset) (*dataset.Dataset, error)

	// IsFitted reports whether Fit has completed.
	IsFitted() bool

	// Clone returns an unfitted copy carrying the same parameters. Used to
	// rebuild recipes for per-fold refitting.
	Clone() Step
}

// baseStep carries the declaration shared by all built-in steps.
type baseStep struct {
	name   string
	sel    Selector
	fitted bool
}

func (b *baseStep) Name() string       { return b.name }
func (b *baseStep) Selector() Selector { return b.sel }
func (b *baseStep) IsFitted() bool     { return b.fitted }

func (b *baseStep) setFitted() { b.fitted = true }

// requireFitted returns a NotFittedError naming the step unless fitted.
func (b *baseStep) requireFitted(method string) error {
	if !b.fitted {
		return errors.NewNotFittedError("step "+b.name, method)
	}
	return nil
}

// requireNumeric verifies that each resolved column is numeric, since every
// built-in statistical step operates on numbers.
func requireNumeric(op string, ds *dataset.Dataset, cols []string) error {
	for _, name := range cols {
		c, err := ds.Column(name)
		if err != nil {
			return err
		}
		if c.Type != dataset.Numeric {
			return errors.NewValueError(op, "column \""+name+"\" is "+c.Type.String()+", not numeric")
		}
	}
	return nil
}

// missingColumns returns the required columns absent from the dataset, in the
// given order.
func missingColumns(ds *dataset.Dataset, required []string) []string {
	var missing []string
	for _, name := range required {
		if !ds.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}
