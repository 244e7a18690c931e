package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/recipes/metrics"
	"github.com/YuminosukeSato/recipes/pkg/errors"
)

// LinearRegression is an ordinary least squares regressor solved by QR
// decomposition. It is the reference Regressor used to exercise the trainer
// and resampling driver end to end.
type LinearRegression struct {
	fitIntercept bool
	fitted       bool

	coef      []float64
	intercept float64
	nFeatures int
}

// NewLinearRegression creates a least-squares regressor with an intercept.
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{fitIntercept: true}
}

// IsFitted reports whether the model has been fitted.
func (l *LinearRegression) IsFitted() bool {
	return l.fitted
}

// Coef returns the fitted coefficients.
func (l *LinearRegression) Coef() []float64 {
	out := make([]float64, len(l.coef))
	copy(out, l.coef)
	return out
}

// Intercept returns the fitted intercept.
func (l *LinearRegression) Intercept() float64 {
	return l.intercept
}

// Fit solves the least-squares problem for the given model matrix and
// outcome.
func (l *LinearRegression) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "LinearRegression.Fit")
	}
	yr, yc := y.Dims()
	if yr != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, yr, 0)
	}
	if yc != 1 {
		return errors.NewValueError("LinearRegression.Fit", "y must be a column vector (n x 1 matrix)")
	}

	cols := c
	if l.fitIntercept {
		cols++
	}
	if r < cols {
		return errors.NewValueError("LinearRegression.Fit",
			fmt.Sprintf("need at least %d rows for %d coefficients, got %d", cols, cols, r))
	}

	design := mat.NewDense(r, cols, nil)
	for i := 0; i < r; i++ {
		j := 0
		if l.fitIntercept {
			design.Set(i, 0, 1.0)
			j = 1
		}
		for k := 0; k < c; k++ {
			design.Set(i, j+k, X.At(i, k))
		}
	}

	var qr mat.QR
	qr.Factorize(design)

	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, y); err != nil {
		return errors.Wrap(errors.ErrSingularMatrix, "LinearRegression.Fit: "+err.Error())
	}

	l.coef = make([]float64, c)
	if l.fitIntercept {
		l.intercept = beta.At(0, 0)
		for k := 0; k < c; k++ {
			l.coef[k] = beta.At(k+1, 0)
		}
	} else {
		l.intercept = 0
		for k := 0; k < c; k++ {
			l.coef[k] = beta.At(k, 0)
		}
	}
	if err := errors.CheckValues("LinearRegression.Fit", l.coef); err != nil {
		return err
	}

	l.nFeatures = c
	l.fitted = true
	return nil
}

// Predict returns predictions for the given model matrix.
func (l *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !l.fitted {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}
	r, c := X.Dims()
	if c != l.nFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", l.nFeatures, c, 1)
	}

	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		v := l.intercept
		for k := 0; k < c; k++ {
			v += l.coef[k] * X.At(i, k)
		}
		out.Set(i, 0, v)
	}
	return out, nil
}

// Score returns the coefficient of determination R² of the prediction.
func (l *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	pred, err := l.Predict(X)
	if err != nil {
		return 0, err
	}
	r, _ := y.Dims()
	yTrue := mat.NewVecDense(r, nil)
	yPred := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yTrue.SetVec(i, y.At(i, 0))
		yPred.SetVec(i, pred.At(i, 0))
	}
	return metrics.R2Score(yTrue, yPred)
}

// String returns the model representation.
func (l *LinearRegression) String() string {
	if !l.fitted {
		return fmt.Sprintf("LinearRegression(fit_intercept=%t)", l.fitIntercept)
	}
	return fmt.Sprintf("LinearRegression(fit_intercept=%t, n_features=%d)", l.fitIntercept, l.nFeatures)
}
