package recipe

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/YuminosukeSato/recipes/dataset"
	"github.com/YuminosukeSato/recipes/pkg/errors"
)

const tol = 1e-9

func numericData(t *testing.T, cols map[string][]float64, order []string) *dataset.Dataset {
	t.Helper()
	built := make([]dataset.Column, 0, len(order))
	for _, name := range order {
		built = append(built, dataset.NewNumeric(name, cols[name]))
	}
	ds, err := dataset.New(built...)
	if err != nil {
		t.Fatalf("dataset.New() error = %v", err)
	}
	return ds
}

func TestCenterStep(t *testing.T) {
	ds := numericData(t, map[string][]float64{
		"x1": {1, 2, 3, 4},
		"x2": {10, 10, 10, 10},
	}, []string{"x1", "x2"})

	step := Center(ByName("x1", "x2"))
	if err := step.Fit(ds, []string{"x1", "x2"}); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if got := step.Means["x1"]; math.Abs(got-2.5) > tol {
		t.Errorf("Means[x1] = %v, want 2.5", got)
	}

	out, err := step.Apply(ds)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	c, _ := out.Column("x1")
	want := []float64{-1.5, -0.5, 0.5, 1.5}
	for i, v := range c.Float {
		if math.Abs(v-want[i]) > tol {
			t.Errorf("centered x1[%d] = %v, want %v", i, v, want[i])
		}
	}

	// Fitted means carry to new data unchanged.
	fresh := numericData(t, map[string][]float64{
		"x1": {5},
		"x2": {0},
	}, []string{"x1", "x2"})
	out2, err := step.Apply(fresh)
	if err != nil {
		t.Fatalf("Apply(fresh) error = %v", err)
	}
	c2, _ := out2.Column("x1")
	if math.Abs(c2.Float[0]-2.5) > tol {
		t.Errorf("Apply(fresh) x1 = %v, want 2.5", c2.Float[0])
	}
}

func TestCenterStepNotFitted(t *testing.T) {
	ds := numericData(t, map[string][]float64{"x1": {1}}, []string{"x1"})
	step := Center(ByName("x1"))
	_, err := step.Apply(ds)
	var nf *errors.NotFittedError
	if !errors.As(err, &nf) {
		t.Errorf("Apply() before Fit error = %v, want NotFittedError", err)
	}
}

func TestCenterStepSchemaMismatch(t *testing.T) {
	train := numericData(t, map[string][]float64{
		"x1": {1, 2},
		"x2": {3, 4},
	}, []string{"x1", "x2"})
	step := Center(ByName("x1", "x2"))
	if err := step.Fit(train, []string{"x1", "x2"}); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	test := numericData(t, map[string][]float64{"x1": {1}}, []string{"x1"})
	_, err := step.Apply(test)
	var mismatch *errors.SchemaMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("Apply() error = %v, want SchemaMismatchError", err)
	}
	if !reflect.DeepEqual(mismatch.Missing, []string{"x2"}) {
		t.Errorf("Missing = %v, want [x2]", mismatch.Missing)
	}
}

func TestScaleStep(t *testing.T) {
	ds := numericData(t, map[string][]float64{
		"x1": {1, 2, 3, 4},
	}, []string{"x1"})

	step := Scale(ByName("x1"))
	if err := step.Fit(ds, []string{"x1"}); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	sd := math.Sqrt(5.0 / 4.0)
	if got := step.Scales["x1"]; math.Abs(got-sd) > tol {
		t.Errorf("Scales[x1] = %v, want %v", got, sd)
	}

	out, err := step.Apply(ds)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	c, _ := out.Column("x1")
	for i, raw := range []float64{1, 2, 3, 4} {
		if math.Abs(c.Float[i]-raw/sd) > tol {
			t.Errorf("scaled x1[%d] = %v, want %v", i, c.Float[i], raw/sd)
		}
	}
}

// A constant column gets scale 1.0 and raises a warning instead of dividing
// by zero.
func TestScaleStepConstantColumn(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(nil)

	ds := numericData(t, map[string][]float64{
		"flat": {7, 7, 7},
	}, []string{"flat"})

	step := Scale(ByName("flat"))
	if err := step.Fit(ds, []string{"flat"}); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if got := step.Scales["flat"]; got != 1.0 {
		t.Errorf("Scales[flat] = %v, want 1.0", got)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %d, want 1", len(warnings))
	}
	var ccw *errors.ConstantColumnWarning
	if !errors.As(warnings[0], &ccw) {
		t.Errorf("warning = %T, want *ConstantColumnWarning", warnings[0])
	}
}

func TestScaleStepCategoricalColumn(t *testing.T) {
	ds, err := dataset.New(
		dataset.NewCategorical("g", []string{"a", "b"}),
	)
	if err != nil {
		t.Fatalf("dataset.New() error = %v", err)
	}
	step := Scale(ByName("g"))
	if err := step.Fit(ds, []string{"g"}); err == nil {
		t.Error("Fit() on categorical column expected error")
	}
}

func TestRangeStep(t *testing.T) {
	ds := numericData(t, map[string][]float64{
		"x": {0, 5, 10},
	}, []string{"x"})

	step := RangeScaleDefault(ByName("x"))
	if err := step.Fit(ds, []string{"x"}); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	out, err := step.Apply(ds)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	c, _ := out.Column("x")
	want := []float64{0, 0.5, 1}
	for i := range want {
		if math.Abs(c.Float[i]-want[i]) > tol {
			t.Errorf("ranged x[%d] = %v, want %v", i, c.Float[i], want[i])
		}
	}

	// New data outside the training range extrapolates past the bounds.
	fresh := numericData(t, map[string][]float64{"x": {20}}, []string{"x"})
	out2, err := step.Apply(fresh)
	if err != nil {
		t.Fatalf("Apply(fresh) error = %v", err)
	}
	c2, _ := out2.Column("x")
	if math.Abs(c2.Float[0]-2.0) > tol {
		t.Errorf("Apply(fresh) x = %v, want 2.0", c2.Float[0])
	}
}

func TestRangeStepInvalidBounds(t *testing.T) {
	ds := numericData(t, map[string][]float64{"x": {1, 2}}, []string{"x"})
	step := RangeScale(ByName("x"), 1.0, 1.0)
	if err := step.Fit(ds, []string{"x"}); err == nil {
		t.Error("Fit() with max <= min expected error")
	}
}

func TestNearZeroVarStep(t *testing.T) {
	rows := 21
	constCol := make([]float64, rows)
	for i := range constCol {
		constCol[i] = 5
	}
	flag := make([]float64, rows)
	flag[0] = 1 // one non-zero out of 21
	spread := make([]float64, rows)
	for i := range spread {
		spread[i] = float64(i)
	}

	ds := numericData(t, map[string][]float64{
		"const":  constCol,
		"flag":   flag,
		"spread": spread,
	}, []string{"const", "flag", "spread"})

	step := NearZeroVarDefault(All())
	if err := step.Fit(ds, []string{"const", "flag", "spread"}); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if !reflect.DeepEqual(step.Dropped, []string{"const", "flag"}) {
		t.Errorf("Dropped = %v, want [const flag]", step.Dropped)
	}
	if !reflect.DeepEqual(step.Retained, []string{"spread"}) {
		t.Errorf("Retained = %v, want [spread]", step.Retained)
	}

	out, err := step.Apply(ds)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !reflect.DeepEqual(out.Names(), []string{"spread"}) {
		t.Errorf("Apply() columns = %v, want [spread]", out.Names())
	}
}

func TestNearZeroVarCategorical(t *testing.T) {
	ds, err := dataset.New(
		dataset.NewCategorical("g", []string{"a", "a", "a", "a"}),
		dataset.NewCategorical("h", []string{"a", "b", "a", "b"}),
	)
	if err != nil {
		t.Fatalf("dataset.New() error = %v", err)
	}

	step := NearZeroVarDefault(All())
	if err := step.Fit(ds, []string{"g", "h"}); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if !reflect.DeepEqual(step.Dropped, []string{"g"}) {
		t.Errorf("Dropped = %v, want [g]", step.Dropped)
	}
}

func TestCorrFilterStep(t *testing.T) {
	x1 := []float64{1, 2, 3, 4, 5, 6}
	x2 := make([]float64, len(x1))
	for i, v := range x1 {
		x2[i] = 2 * v // perfectly correlated with x1
	}
	x3 := []float64{1, -1, 1, -1, 1, -1}

	ds := numericData(t, map[string][]float64{
		"x1": x1, "x2": x2, "x3": x3,
	}, []string{"x1", "x2", "x3"})

	step := CorrFilter(All(), 0.9)
	if err := step.Fit(ds, []string{"x1", "x2", "x3"}); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if len(step.Dropped) != 1 {
		t.Fatalf("Dropped = %v, want exactly one of the correlated pair", step.Dropped)
	}
	if d := step.Dropped[0]; d != "x1" && d != "x2" {
		t.Errorf("Dropped = %v, want a member of {x1, x2}", step.Dropped)
	}
	for _, name := range step.Retained {
		if name == "x3" {
			return
		}
	}
	t.Errorf("Retained = %v, must keep the uncorrelated x3", step.Retained)
}

func TestCorrFilterValidation(t *testing.T) {
	ds := numericData(t, map[string][]float64{
		"x1": {1, 2, 3},
		"x2": {3, 1, 2},
	}, []string{"x1", "x2"})

	tests := []struct {
		name      string
		threshold float64
	}{
		{"Zero threshold", 0},
		{"Negative threshold", -0.5},
		{"Above one", 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step := CorrFilter(All(), tt.threshold)
			if err := step.Fit(ds, []string{"x1", "x2"}); err == nil {
				t.Error("Fit() expected validation error")
			}
		})
	}
}

// A zero-variance column makes the correlation matrix undefined; the fit
// fails instead of silently producing NaN decisions.
func TestCorrFilterDegenerateColumn(t *testing.T) {
	ds := numericData(t, map[string][]float64{
		"x1":   {1, 2, 3, 4},
		"flat": {5, 5, 5, 5},
	}, []string{"x1", "flat"})

	step := CorrFilter(All(), 0.9)
	if err := step.Fit(ds, []string{"x1", "flat"}); err == nil {
		t.Error("Fit() with zero-variance column expected error")
	}
}

func TestPCAStep(t *testing.T) {
	ds := numericData(t, map[string][]float64{
		"a": {2.5, 0.5, 2.2, 1.9, 3.1, 2.3},
		"b": {2.4, 0.7, 2.9, 2.2, 3.0, 2.7},
		"c": {0.1, -0.2, 0.3, 0.0, 0.2, 0.1},
	}, []string{"a", "b", "c"})

	step := PCA(ByName("a", "b", "c"), 2).WithPrefix("surf_area_")
	if err := step.Fit(ds, []string{"a", "b", "c"}); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	out, err := step.Apply(ds)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !reflect.DeepEqual(out.Names(), []string{"surf_area_1", "surf_area_2"}) {
		t.Errorf("Apply() columns = %v, want [surf_area_1 surf_area_2]", out.Names())
	}
	if out.Rows() != ds.Rows() {
		t.Errorf("Apply() rows = %d, want %d", out.Rows(), ds.Rows())
	}

	// Component scores are centered over the training data.
	for _, name := range out.Names() {
		c, _ := out.Column(name)
		sum := 0.0
		for _, v := range c.Float {
			sum += v
		}
		if math.Abs(sum) > 1e-6 {
			t.Errorf("component %s not centered, sum = %v", name, sum)
		}
	}

	// Applying twice yields identical output.
	again, err := step.Apply(ds)
	if err != nil {
		t.Fatalf("second Apply() error = %v", err)
	}
	for _, name := range out.Names() {
		c1, _ := out.Column(name)
		c2, _ := again.Column(name)
		for i := range c1.Float {
			if c1.Float[i] != c2.Float[i] {
				t.Fatalf("Apply() not deterministic at %s[%d]", name, i)
			}
		}
	}
}

func TestPCAStepComponentCap(t *testing.T) {
	ds := numericData(t, map[string][]float64{
		"a": {1, 2, 3, 4},
		"b": {2, 1, 4, 3},
	}, []string{"a", "b"})

	// Requesting more components than source columns caps at the column count.
	step := PCA(ByName("a", "b"), 5)
	if err := step.Fit(ds, []string{"a", "b"}); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	out, err := step.Apply(ds)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got := out.NumCols(); got != 2 {
		t.Errorf("NumCols() = %d, want 2", got)
	}
}

func TestStepClone(t *testing.T) {
	ds := numericData(t, map[string][]float64{
		"x": {1, 2, 3, 4},
	}, []string{"x"})

	steps := []Step{
		Center(ByName("x")),
		Scale(ByName("x")),
		RangeScale(ByName("x"), -1, 1),
		NearZeroVar(ByName("x"), DefaultFreqCut, DefaultUniqueCut),
		CorrFilter(ByName("x"), 0.9),
		PCA(ByName("x"), 1).WithPrefix("comp_"),
	}
	for _, s := range steps {
		if err := s.Fit(ds, []string{"x"}); err != nil {
			t.Fatalf("%s Fit() error = %v", s.Name(), err)
		}
		clone := s.Clone()
		if clone.IsFitted() {
			t.Errorf("%s Clone() carried fitted state", s.Name())
		}
		if clone.Name() != s.Name() {
			t.Errorf("Clone() name = %q, want %q", clone.Name(), s.Name())
		}
		if _, err := clone.Apply(ds); err == nil {
			t.Errorf("%s Clone().Apply() before Fit expected error", s.Name())
		}
	}

	// Clone preserves parameters.
	pca := PCA(ByName("x"), 1).WithPrefix("comp_").WithVarianceThreshold(0.8)
	cp := pca.Clone().(*PCAStep)
	if cp.Prefix != "comp_" || cp.VarianceThreshold != 0.8 || cp.NumComponents != 1 {
		t.Errorf("PCA Clone() lost parameters: %+v", cp)
	}
}

func TestStepString(t *testing.T) {
	s := Center(AllNumericPredictors())
	if got := s.String(); !strings.Contains(got, "Center") {
		t.Errorf("String() = %q, want mention of Center", got)
	}
}
