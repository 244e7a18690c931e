package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/recipes/pkg/errors"
)

// Extras carries the auxiliary-role data for one evaluation: rows are
// original dataset row indices, aligned position-by-position with the
// prediction and outcome vectors; Columns holds the auxiliary columns and
// Weights the case weights, in the same alignment. This is the only boundary
// through which auxiliary-role data reaches user code; auxiliary columns are
// never part of the matrix a model is fitted on.
type Extras struct {
	Rows    []int
	Columns map[string][]float64
	Weights []float64
}

// Aux returns one auxiliary column keyed by original row index.
func (e *Extras) Aux(name string) (map[int]float64, error) {
	values, ok := e.Columns[name]
	if !ok {
		return nil, errors.NewUnknownColumnError("Extras.Aux", name)
	}
	if len(values) != len(e.Rows) {
		return nil, errors.NewDimensionError("Extras.Aux", len(e.Rows), len(values), 0)
	}
	out := make(map[int]float64, len(values))
	for i, row := range e.Rows {
		out[row] = values[i]
	}
	return out, nil
}

// EvalFunc scores predictions against observed outcomes, optionally using
// auxiliary data, and returns named metric values. Custom metrics (e.g. a
// weighted RMSE over a performance variable) implement this signature.
type EvalFunc func(yTrue, yPred *mat.VecDense, extras *Extras) (map[string]float64, error)

// RegressionSummary is the default EvalFunc for regression: RMSE, MAE, and
// R². When case weights are present, weighted RMSE is included as well.
func RegressionSummary(yTrue, yPred *mat.VecDense, extras *Extras) (map[string]float64, error) {
	rmse, err := RMSE(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	mae, err := MAE(yTrue, yPred)
	if err != nil {
		return nil, err
	}
	out := map[string]float64{
		"rmse": rmse,
		"mae":  mae,
	}

	if r2, err := R2Score(yTrue, yPred); err == nil {
		out["r2"] = r2
	}

	if extras != nil && len(extras.Weights) > 0 {
		wrmse, err := WeightedRMSE(yTrue, yPred, extras.Weights)
		if err != nil {
			return nil, err
		}
		out["weighted_rmse"] = wrmse
	}
	return out, nil
}
