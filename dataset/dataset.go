// Package dataset provides an in-memory column-oriented table with named,
// typed columns. Rows are aligned by position across columns; matrix and
// vector views are produced over gonum for numeric computations.
package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/recipes/pkg/errors"
)

// ColType is the declared semantic type of a column.
type ColType int

const (
	// Numeric columns hold float64 values.
	Numeric ColType = iota
	// Categorical columns hold string labels.
	Categorical
)

// String returns the type name.
func (t ColType) String() string {
	switch t {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// Column is a named sequence of scalar values of one declared type. Exactly
// one of Float or Label is populated, matching Type.
type Column struct {
	Name  string
	Type  ColType
	Float []float64
	Label []string
}

// NewNumeric creates a numeric column.
func NewNumeric(name string, values []float64) Column {
	return Column{Name: name, Type: Numeric, Float: values}
}

// NewCategorical creates a categorical column.
func NewCategorical(name string, values []string) Column {
	return Column{Name: name, Type: Categorical, Label: values}
}

// Len returns the number of rows in the column.
func (c Column) Len() int {
	if c.Type == Categorical {
		return len(c.Label)
	}
	return len(c.Float)
}

// clone returns a deep copy of the column.
func (c Column) clone() Column {
	out := Column{Name: c.Name, Type: c.Type}
	if c.Float != nil {
		out.Float = make([]float64, len(c.Float))
		copy(out.Float, c.Float)
	}
	if c.Label != nil {
		out.Label = make([]string, len(c.Label))
		copy(out.Label, c.Label)
	}
	return out
}

// Dataset is an ordered collection of named columns aligned by row position.
// Datasets are treated as values: transformations return new datasets rather
// than mutating in place.
type Dataset struct {
	cols  []Column
	index map[string]int
}

// New creates a dataset from the given columns. All columns must have the
// same length and distinct names.
func New(cols ...Column) (*Dataset, error) {
	if len(cols) == 0 {
		return &Dataset{index: map[string]int{}}, nil
	}

	rows := cols[0].Len()
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		if c.Name == "" {
			return nil, errors.NewValidationError("column", "empty column name", i)
		}
		if _, dup := index[c.Name]; dup {
			return nil, errors.NewValidationError("column", "duplicate column name", c.Name)
		}
		if c.Len() != rows {
			return nil, errors.NewDimensionError(fmt.Sprintf("dataset.New(%s)", c.Name), rows, c.Len(), 0)
		}
		index[c.Name] = i
	}

	owned := make([]Column, len(cols))
	copy(owned, cols)
	return &Dataset{cols: owned, index: index}, nil
}

// Rows returns the number of rows.
func (d *Dataset) Rows() int {
	if len(d.cols) == 0 {
		return 0
	}
	return d.cols[0].Len()
}

// NumCols returns the number of columns.
func (d *Dataset) NumCols() int {
	return len(d.cols)
}

// Names returns the column names in storage order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.cols))
	for i, c := range d.cols {
		names[i] = c.Name
	}
	return names
}

// Has reports whether a column exists.
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Column returns the named column.
func (d *Dataset) Column(name string) (Column, error) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, errors.NewUnknownColumnError("dataset.Column", name)
	}
	return d.cols[i], nil
}

// ColumnAt returns the column at position i in storage order.
func (d *Dataset) ColumnAt(i int) Column {
	return d.cols[i]
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	cols := make([]Column, len(d.cols))
	for i, c := range d.cols {
		cols[i] = c.clone()
	}
	out, _ := New(cols...)
	return out
}

// Select returns a new dataset containing only the named columns, in the
// given order.
func (d *Dataset) Select(names []string) (*Dataset, error) {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		i, ok := d.index[name]
		if !ok {
			return nil, errors.NewUnknownColumnError("dataset.Select", name)
		}
		cols = append(cols, d.cols[i])
	}
	return New(cols...)
}

// Drop returns a new dataset without the named columns. Names absent from the
// dataset are ignored; dropping a column twice is not an error.
func (d *Dataset) Drop(names []string) (*Dataset, error) {
	dropped := make(map[string]bool, len(names))
	for _, n := range names {
		dropped[n] = true
	}
	cols := make([]Column, 0, len(d.cols))
	for _, c := range d.cols {
		if !dropped[c.Name] {
			cols = append(cols, c)
		}
	}
	return New(cols...)
}

// Append returns a new dataset with the column added at the end.
func (d *Dataset) Append(col Column) (*Dataset, error) {
	if d.Has(col.Name) {
		return nil, errors.NewValidationError("column", "duplicate column name", col.Name)
	}
	if len(d.cols) > 0 && col.Len() != d.Rows() {
		return nil, errors.NewDimensionError(fmt.Sprintf("dataset.Append(%s)", col.Name), d.Rows(), col.Len(), 0)
	}
	cols := make([]Column, 0, len(d.cols)+1)
	cols = append(cols, d.cols...)
	cols = append(cols, col)
	return New(cols...)
}

// Replace returns a new dataset with the named column's values replaced,
// preserving column order.
func (d *Dataset) Replace(col Column) (*Dataset, error) {
	i, ok := d.index[col.Name]
	if !ok {
		return nil, errors.NewUnknownColumnError("dataset.Replace", col.Name)
	}
	if col.Len() != d.Rows() {
		return nil, errors.NewDimensionError(fmt.Sprintf("dataset.Replace(%s)", col.Name), d.Rows(), col.Len(), 0)
	}
	cols := make([]Column, len(d.cols))
	copy(cols, d.cols)
	cols[i] = col
	return New(cols...)
}

// RowSubset returns a new dataset containing the given rows, in index order.
// All columns are subset identically, so row alignment across roles is
// preserved.
func (d *Dataset) RowSubset(indices []int) (*Dataset, error) {
	rows := d.Rows()
	for _, idx := range indices {
		if idx < 0 || idx >= rows {
			return nil, errors.NewValueError("dataset.RowSubset", fmt.Sprintf("row index %d out of range [0, %d)", idx, rows))
		}
	}

	cols := make([]Column, len(d.cols))
	for i, c := range d.cols {
		sub := Column{Name: c.Name, Type: c.Type}
		switch c.Type {
		case Categorical:
			sub.Label = make([]string, len(indices))
			for j, idx := range indices {
				sub.Label[j] = c.Label[idx]
			}
		default:
			sub.Float = make([]float64, len(indices))
			for j, idx := range indices {
				sub.Float[j] = c.Float[idx]
			}
		}
		cols[i] = sub
	}
	return New(cols...)
}

// Matrix returns an n_rows x len(names) dense matrix view over the named
// numeric columns, in the given column order.
func (d *Dataset) Matrix(names []string) (*mat.Dense, error) {
	if len(names) == 0 {
		return nil, errors.NewValueError("dataset.Matrix", "no columns requested")
	}
	rows := d.Rows()
	if rows == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "dataset.Matrix")
	}

	m := mat.NewDense(rows, len(names), nil)
	for j, name := range names {
		i, ok := d.index[name]
		if !ok {
			return nil, errors.NewUnknownColumnError("dataset.Matrix", name)
		}
		c := d.cols[i]
		if c.Type != Numeric {
			return nil, errors.NewValueError("dataset.Matrix", fmt.Sprintf("column %q is %s, not numeric", name, c.Type))
		}
		for r := 0; r < rows; r++ {
			m.Set(r, j, c.Float[r])
		}
	}
	return m, nil
}

// Vector returns a vector view over one numeric column.
func (d *Dataset) Vector(name string) (*mat.VecDense, error) {
	i, ok := d.index[name]
	if !ok {
		return nil, errors.NewUnknownColumnError("dataset.Vector", name)
	}
	c := d.cols[i]
	if c.Type != Numeric {
		return nil, errors.NewValueError("dataset.Vector", fmt.Sprintf("column %q is %s, not numeric", name, c.Type))
	}
	values := make([]float64, len(c.Float))
	copy(values, c.Float)
	return mat.NewVecDense(len(values), values), nil
}

// String returns a short description of the dataset shape.
func (d *Dataset) String() string {
	return fmt.Sprintf("Dataset(%d rows, %d columns)", d.Rows(), d.NumCols())
}
