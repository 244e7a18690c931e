package dataset

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/recipes/pkg/errors"
)

func testData(t *testing.T) *Dataset {
	t.Helper()
	ds, err := New(
		NewNumeric("x1", []float64{1, 2, 3, 4}),
		NewNumeric("x2", []float64{10, 20, 30, 40}),
		NewCategorical("group", []string{"a", "a", "b", "b"}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return ds
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cols    []Column
		wantErr bool
	}{
		{
			name: "Valid columns",
			cols: []Column{
				NewNumeric("x", []float64{1, 2}),
				NewCategorical("g", []string{"a", "b"}),
			},
		},
		{
			name: "Empty dataset",
			cols: nil,
		},
		{
			name: "Length mismatch",
			cols: []Column{
				NewNumeric("x", []float64{1, 2}),
				NewNumeric("y", []float64{1, 2, 3}),
			},
			wantErr: true,
		},
		{
			name: "Duplicate name",
			cols: []Column{
				NewNumeric("x", []float64{1}),
				NewNumeric("x", []float64{2}),
			},
			wantErr: true,
		},
		{
			name: "Empty name",
			cols: []Column{
				NewNumeric("", []float64{1}),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cols...)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDatasetShape(t *testing.T) {
	ds := testData(t)
	if got := ds.Rows(); got != 4 {
		t.Errorf("Rows() = %d, want 4", got)
	}
	if got := ds.NumCols(); got != 3 {
		t.Errorf("NumCols() = %d, want 3", got)
	}
	want := []string{"x1", "x2", "group"}
	got := ds.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestColumnLookup(t *testing.T) {
	ds := testData(t)

	c, err := ds.Column("x2")
	if err != nil {
		t.Fatalf("Column(x2) error = %v", err)
	}
	if c.Float[2] != 30 {
		t.Errorf("Column(x2).Float[2] = %v, want 30", c.Float[2])
	}

	_, err = ds.Column("missing")
	if err == nil {
		t.Fatal("Column(missing) expected error")
	}
	var unknownErr *errors.UnknownColumnError
	if !errors.As(err, &unknownErr) {
		t.Errorf("Column(missing) error = %T, want *UnknownColumnError", err)
	}
}

func TestSelectDrop(t *testing.T) {
	ds := testData(t)

	sel, err := ds.Select([]string{"x2", "x1"})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got := sel.Names(); got[0] != "x2" || got[1] != "x1" {
		t.Errorf("Select() order = %v, want [x2 x1]", got)
	}

	if _, err := ds.Select([]string{"nope"}); err == nil {
		t.Error("Select(nope) expected error")
	}

	dropped, err := ds.Drop([]string{"group", "not_there"})
	if err != nil {
		t.Fatalf("Drop() error = %v", err)
	}
	if dropped.Has("group") {
		t.Error("Drop() left group in place")
	}
	if dropped.NumCols() != 2 {
		t.Errorf("Drop() NumCols = %d, want 2", dropped.NumCols())
	}
	// Original unchanged.
	if !ds.Has("group") {
		t.Error("Drop() mutated the receiver")
	}
}

func TestAppendReplace(t *testing.T) {
	ds := testData(t)

	out, err := ds.Append(NewNumeric("x3", []float64{5, 6, 7, 8}))
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if !out.Has("x3") || out.NumCols() != 4 {
		t.Errorf("Append() did not add column, cols = %v", out.Names())
	}

	if _, err := ds.Append(NewNumeric("x1", []float64{0, 0, 0, 0})); err == nil {
		t.Error("Append(duplicate) expected error")
	}
	if _, err := ds.Append(NewNumeric("short", []float64{1})); err == nil {
		t.Error("Append(length mismatch) expected error")
	}

	rep, err := ds.Replace(NewNumeric("x1", []float64{0, 0, 0, 0}))
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	c, _ := rep.Column("x1")
	if c.Float[0] != 0 {
		t.Errorf("Replace() value = %v, want 0", c.Float[0])
	}
	if got := rep.Names()[0]; got != "x1" {
		t.Errorf("Replace() moved column, first = %q", got)
	}
	orig, _ := ds.Column("x1")
	if orig.Float[0] != 1 {
		t.Error("Replace() mutated the receiver")
	}
}

func TestRowSubset(t *testing.T) {
	ds := testData(t)

	sub, err := ds.RowSubset([]int{3, 1})
	if err != nil {
		t.Fatalf("RowSubset() error = %v", err)
	}
	if sub.Rows() != 2 {
		t.Fatalf("RowSubset() rows = %d, want 2", sub.Rows())
	}
	x1, _ := sub.Column("x1")
	g, _ := sub.Column("group")
	if x1.Float[0] != 4 || x1.Float[1] != 2 {
		t.Errorf("RowSubset() x1 = %v, want [4 2]", x1.Float)
	}
	if g.Label[0] != "b" || g.Label[1] != "a" {
		t.Errorf("RowSubset() group = %v, want [b a]", g.Label)
	}

	if _, err := ds.RowSubset([]int{4}); err == nil {
		t.Error("RowSubset(out of range) expected error")
	}
	if _, err := ds.RowSubset([]int{-1}); err == nil {
		t.Error("RowSubset(negative) expected error")
	}
}

func TestMatrixVector(t *testing.T) {
	ds := testData(t)

	m, err := ds.Matrix([]string{"x1", "x2"})
	if err != nil {
		t.Fatalf("Matrix() error = %v", err)
	}
	r, c := m.Dims()
	if r != 4 || c != 2 {
		t.Fatalf("Matrix() dims = %dx%d, want 4x2", r, c)
	}
	if m.At(2, 1) != 30 {
		t.Errorf("Matrix()[2,1] = %v, want 30", m.At(2, 1))
	}

	if _, err := ds.Matrix([]string{"group"}); err == nil {
		t.Error("Matrix(categorical) expected error")
	}
	if _, err := ds.Matrix(nil); err == nil {
		t.Error("Matrix(no columns) expected error")
	}

	v, err := ds.Vector("x1")
	if err != nil {
		t.Fatalf("Vector() error = %v", err)
	}
	if math.Abs(v.AtVec(3)-4) > 1e-12 {
		t.Errorf("Vector()[3] = %v, want 4", v.AtVec(3))
	}
	// Vector is a copy.
	v.SetVec(0, 99)
	orig, _ := ds.Column("x1")
	if orig.Float[0] != 1 {
		t.Error("Vector() shares backing storage with the dataset")
	}
}

func TestClone(t *testing.T) {
	ds := testData(t)
	cp := ds.Clone()

	c, _ := cp.Column("x1")
	c.Float[0] = 99
	orig, _ := ds.Column("x1")
	if orig.Float[0] != 1 {
		t.Error("Clone() shares backing storage")
	}
}
