package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func vec(values ...float64) *mat.VecDense {
	return mat.NewVecDense(len(values), values)
}

func TestMSE(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "Perfect prediction",
			yTrue: []float64{1, 2, 3},
			yPred: []float64{1, 2, 3},
			want:  0,
		},
		{
			name:  "Constant offset",
			yTrue: []float64{1, 2, 3, 4},
			yPred: []float64{2, 3, 4, 5},
			want:  1,
		},
		{
			name:  "Mixed errors",
			yTrue: []float64{3, -0.5, 2, 7},
			yPred: []float64{2.5, 0.0, 2, 8},
			want:  0.375,
		},
		{
			name:    "Dimension mismatch",
			yTrue:   []float64{1, 2, 3},
			yPred:   []float64{1, 2},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MSE(vec(tt.yTrue...), vec(tt.yPred...))
			if (err != nil) != tt.wantErr {
				t.Fatalf("MSE() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("MSE() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRMSE(t *testing.T) {
	got, err := RMSE(vec(1, 2, 3, 4), vec(2, 3, 4, 5))
	if err != nil {
		t.Fatalf("RMSE() error = %v", err)
	}
	if math.Abs(got-1) > 1e-9 {
		t.Errorf("RMSE() = %v, want 1", got)
	}
}

func TestMAE(t *testing.T) {
	got, err := MAE(vec(3, -0.5, 2, 7), vec(2.5, 0.0, 2, 8))
	if err != nil {
		t.Fatalf("MAE() error = %v", err)
	}
	if math.Abs(got-0.625) > 1e-9 {
		t.Errorf("MAE() = %v, want 0.625", got)
	}
}

func TestR2Score(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "Perfect prediction",
			yTrue: []float64{1, 2, 3, 4},
			yPred: []float64{1, 2, 3, 4},
			want:  1,
		},
		{
			name:  "Mean prediction",
			yTrue: []float64{1, 2, 3, 4},
			yPred: []float64{2.5, 2.5, 2.5, 2.5},
			want:  0,
		},
		{
			name:    "Zero variance in yTrue",
			yTrue:   []float64{2, 2, 2},
			yPred:   []float64{1, 2, 3},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := R2Score(vec(tt.yTrue...), vec(tt.yPred...))
			if (err != nil) != tt.wantErr {
				t.Fatalf("R2Score() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("R2Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeightedRMSE(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		weights []float64
		want    float64
		wantErr bool
	}{
		{
			name:    "Uniform weights match RMSE",
			yTrue:   []float64{1, 2, 3, 4},
			yPred:   []float64{2, 3, 4, 5},
			weights: []float64{1, 1, 1, 1},
			want:    1,
		},
		{
			name:    "Zero weight excludes a row",
			yTrue:   []float64{1, 100},
			yPred:   []float64{1, 0},
			weights: []float64{1, 0},
			want:    0,
		},
		{
			name:    "Weighting shifts the error",
			yTrue:   []float64{0, 0},
			yPred:   []float64{1, 2},
			weights: []float64{3, 1},
			want:    math.Sqrt((3*1 + 1*4) / 4.0),
		},
		{
			name:    "Negative weight",
			yTrue:   []float64{1, 2},
			yPred:   []float64{1, 2},
			weights: []float64{1, -1},
			wantErr: true,
		},
		{
			name:    "All zero weights",
			yTrue:   []float64{1, 2},
			yPred:   []float64{1, 2},
			weights: []float64{0, 0},
			wantErr: true,
		},
		{
			name:    "Weight length mismatch",
			yTrue:   []float64{1, 2},
			yPred:   []float64{1, 2},
			weights: []float64{1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WeightedRMSE(vec(tt.yTrue...), vec(tt.yPred...), tt.weights)
			if (err != nil) != tt.wantErr {
				t.Fatalf("WeightedRMSE() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("WeightedRMSE() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtrasAux(t *testing.T) {
	extras := &Extras{
		Rows: []int{7, 3, 11},
		Columns: map[string][]float64{
			"mol_weight": {70.5, 30.1, 110.9},
		},
	}

	byRow, err := extras.Aux("mol_weight")
	if err != nil {
		t.Fatalf("Aux() error = %v", err)
	}
	want := map[int]float64{7: 70.5, 3: 30.1, 11: 110.9}
	for row, v := range want {
		if byRow[row] != v {
			t.Errorf("Aux()[%d] = %v, want %v", row, byRow[row], v)
		}
	}

	if _, err := extras.Aux("missing"); err == nil {
		t.Error("Aux(missing) expected error")
	}

	misaligned := &Extras{
		Rows:    []int{1, 2},
		Columns: map[string][]float64{"x": {1}},
	}
	if _, err := misaligned.Aux("x"); err == nil {
		t.Error("Aux() with misaligned column expected error")
	}
}

func TestRegressionSummary(t *testing.T) {
	yTrue := vec(1, 2, 3, 4)
	yPred := vec(2, 3, 4, 5)

	got, err := RegressionSummary(yTrue, yPred, nil)
	if err != nil {
		t.Fatalf("RegressionSummary() error = %v", err)
	}
	if math.Abs(got["rmse"]-1) > 1e-9 {
		t.Errorf("rmse = %v, want 1", got["rmse"])
	}
	if math.Abs(got["mae"]-1) > 1e-9 {
		t.Errorf("mae = %v, want 1", got["mae"])
	}
	if _, ok := got["r2"]; !ok {
		t.Error("r2 missing from summary")
	}
	if _, ok := got["weighted_rmse"]; ok {
		t.Error("weighted_rmse present without case weights")
	}

	withWeights, err := RegressionSummary(yTrue, yPred, &Extras{
		Rows:    []int{0, 1, 2, 3},
		Weights: []float64{1, 1, 1, 1},
	})
	if err != nil {
		t.Fatalf("RegressionSummary() with weights error = %v", err)
	}
	if math.Abs(withWeights["weighted_rmse"]-1) > 1e-9 {
		t.Errorf("weighted_rmse = %v, want 1", withWeights["weighted_rmse"])
	}
}

// A constant outcome slice makes R² undefined; the summary omits it rather
// than failing.
func TestRegressionSummaryUndefinedR2(t *testing.T) {
	got, err := RegressionSummary(vec(2, 2, 2), vec(1, 2, 3), nil)
	if err != nil {
		t.Fatalf("RegressionSummary() error = %v", err)
	}
	if _, ok := got["r2"]; ok {
		t.Error("r2 present for zero-variance outcome")
	}
	if _, ok := got["rmse"]; !ok {
		t.Error("rmse missing")
	}
}
