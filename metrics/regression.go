// Package metrics provides regression evaluation metrics and the
// evaluation-function contract through which auxiliary-role data reaches
// user code during resampling.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/recipes/pkg/errors"
)

// MSE computes the mean squared error.
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MSE", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MSE", n, yPred.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum / float64(n), nil
}

// RMSE computes the root mean squared error.
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE computes the mean absolute error.
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MAE", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MAE", n, yPred.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2Score computes the coefficient of determination.
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("R2Score", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("R2Score", n, yPred.Len(), 0)
	}

	var yMean float64
	for i := 0; i < n; i++ {
		yMean += yTrue.AtVec(i)
	}
	yMean /= float64(n)

	var tss, rss float64
	for i := 0; i < n; i++ {
		yTrueVal := yTrue.AtVec(i)
		yPredVal := yPred.AtVec(i)
		tss += (yTrueVal - yMean) * (yTrueVal - yMean)
		rss += (yTrueVal - yPredVal) * (yTrueVal - yPredVal)
	}

	if tss == 0 {
		return 0, errors.Newf("R2Score: total sum of squares is zero (no variance in yTrue)")
	}
	return 1 - rss/tss, nil
}

// WeightedRMSE computes a case-weighted root mean squared error. Weights must
// be non-negative and row-aligned with the observations; all-zero weights
// make the metric undefined.
func WeightedRMSE(yTrue, yPred *mat.VecDense, weights []float64) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("WeightedRMSE", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("WeightedRMSE", n, yPred.Len(), 0)
	}
	if len(weights) != n {
		return 0, errors.NewDimensionError("WeightedRMSE", n, len(weights), 0)
	}

	var sum, wSum float64
	for i := 0; i < n; i++ {
		w := weights[i]
		if w < 0 {
			return 0, errors.NewValueError("WeightedRMSE", "negative case weight")
		}
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += w * diff * diff
		wSum += w
	}

	if wSum == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("weighted_rmse", "all case weights are zero", 0))
		return 0, errors.NewValueError("WeightedRMSE", "all case weights are zero")
	}
	return math.Sqrt(sum / wSum), nil
}
